package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Write materializes the dataset into dir in the requested format ("csv",
// "parquet", or "sqlite") and returns the paths of the files it wrote.
func Write(ctx context.Context, dir, format string, ds *Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	switch format {
	case "csv":
		if err := WriteCSV(dir, ds); err != nil {
			return nil, err
		}
		return []string{filepath.Join(dir, BaselineCSV), filepath.Join(dir, EndlineCSV)}, nil
	case "parquet":
		if err := WriteParquet(dir, ds); err != nil {
			return nil, err
		}
		return []string{filepath.Join(dir, BaselineParquet), filepath.Join(dir, EndlineParquet)}, nil
	case "sqlite":
		path := SQLitePath(dir)
		if err := WriteSQLite(ctx, path, ds); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// Read loads a dataset previously written by Write. Parquet is write-only;
// stats consumers read the csv or sqlite materializations.
func Read(ctx context.Context, dir, format string) (*Dataset, error) {
	switch format {
	case "csv":
		bf, err := os.Open(filepath.Join(dir, BaselineCSV))
		if err != nil {
			return nil, fmt.Errorf("opening baseline table: %w", err)
		}
		defer bf.Close()
		base, err := ReadBaselineCSV(bf)
		if err != nil {
			return nil, err
		}
		ef, err := os.Open(filepath.Join(dir, EndlineCSV))
		if err != nil {
			return nil, fmt.Errorf("opening endline table: %w", err)
		}
		defer ef.Close()
		end, err := ReadEndlineCSV(ef)
		if err != nil {
			return nil, err
		}
		return &Dataset{Baseline: base, Endline: end}, nil
	case "sqlite":
		return ReadSQLite(ctx, SQLitePath(dir))
	}
	return nil, fmt.Errorf("unsupported read format %q", format)
}
