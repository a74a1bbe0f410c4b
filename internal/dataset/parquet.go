package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
)

// WriteParquet writes baseline.parquet and endline.parquet into dir.
func WriteParquet(dir string, ds *Dataset) error {
	mem := memory.NewGoAllocator()

	base := baselineRecord(mem, ds.Baseline)
	defer base.Release()
	if err := writeParquetFile(filepath.Join(dir, BaselineParquet), BaselineSchema(), base); err != nil {
		return fmt.Errorf("writing baseline table: %w", err)
	}

	end := endlineRecord(mem, ds.Endline)
	defer end.Release()
	if err := writeParquetFile(filepath.Join(dir, EndlineParquet), EndlineSchema(), end); err != nil {
		return fmt.Errorf("writing endline table: %w", err)
	}
	return nil
}

func writeParquetFile(path string, sc *arrow.Schema, rec arrow.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	tbl := array.NewTableFromRecords(sc, []arrow.Record{rec})
	defer tbl.Release()

	return pqarrow.WriteTable(tbl, f, 4096, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
}
