package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/csv"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// WriteCSV writes baseline.csv and endline.csv into dir.
func WriteCSV(dir string, ds *Dataset) error {
	if err := writeCSVFile(filepath.Join(dir, BaselineCSV), BaselineSchema(), func(mem memory.Allocator) arrow.Record {
		return baselineRecord(mem, ds.Baseline)
	}); err != nil {
		return fmt.Errorf("writing baseline table: %w", err)
	}
	if err := writeCSVFile(filepath.Join(dir, EndlineCSV), EndlineSchema(), func(mem memory.Allocator) arrow.Record {
		return endlineRecord(mem, ds.Endline)
	}); err != nil {
		return fmt.Errorf("writing endline table: %w", err)
	}
	return nil
}

func writeCSVFile(path string, sc *arrow.Schema, build func(memory.Allocator) arrow.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	mem := memory.NewGoAllocator()
	rec := build(mem)
	defer rec.Release()

	w := csv.NewWriter(f, sc, csv.WithHeader(true), csv.WithComma(','))
	if err := w.Write(rec); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return w.Error()
}

// ReadBaselineCSV parses a baseline table written by WriteCSV.
func ReadBaselineCSV(r io.Reader) ([]BaselineRow, error) {
	recs, err := readCSV(r, BaselineSchema())
	if err != nil {
		return nil, err
	}
	defer releaseAll(recs)

	var rows []BaselineRow
	for _, rec := range recs {
		for i := 0; i < int(rec.NumRows()); i++ {
			rows = append(rows, BaselineRow{
				Identifier: rec.Column(0).(*array.String).Value(i),
				Gender:     rec.Column(1).(*array.String).Value(i),
				Race:       rec.Column(2).(*array.String).Value(i),
				AgeGroup:   rec.Column(3).(*array.String).Value(i),
				Education:  rec.Column(4).(*array.String).Value(i),
				Income:     rec.Column(5).(*array.String).Value(i),
				State:      rec.Column(6).(*array.String).Value(i),
				FBUsage:    rec.Column(7).(*array.Float64).Value(i),
				VaxPercpt:  rec.Column(8).(*array.Int64).Value(i),
				Treatment:  rec.Column(9).(*array.String).Value(i),
			})
		}
	}
	return rows, nil
}

// ReadEndlineCSV parses an endline table written by WriteCSV.
func ReadEndlineCSV(r io.Reader) ([]EndlineRow, error) {
	recs, err := readCSV(r, EndlineSchema())
	if err != nil {
		return nil, err
	}
	defer releaseAll(recs)

	var rows []EndlineRow
	for _, rec := range recs {
		for i := 0; i < int(rec.NumRows()); i++ {
			rows = append(rows, EndlineRow{
				Identifier:   rec.Column(0).(*array.String).Value(i),
				Gender:       rec.Column(1).(*array.String).Value(i),
				Race:         rec.Column(2).(*array.String).Value(i),
				AgeGroup:     rec.Column(3).(*array.String).Value(i),
				Education:    rec.Column(4).(*array.String).Value(i),
				Income:       rec.Column(5).(*array.String).Value(i),
				State:        rec.Column(6).(*array.String).Value(i),
				FBUsage:      rec.Column(7).(*array.Float64).Value(i),
				VaxPercpt:    rec.Column(8).(*array.Int64).Value(i),
				Treatment:    rec.Column(9).(*array.String).Value(i),
				AdAwareness:  rec.Column(10).(*array.String).Value(i),
				NewVaxPercpt: rec.Column(11).(*array.Int64).Value(i),
			})
		}
	}
	return rows, nil
}

func readCSV(r io.Reader, sc *arrow.Schema) ([]arrow.Record, error) {
	reader := csv.NewReader(r, sc, csv.WithHeader(true), csv.WithComma(','), csv.WithChunk(4096))
	defer reader.Release()

	var recs []arrow.Record
	for reader.Next() {
		rec := reader.Record()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := reader.Err(); err != nil {
		releaseAll(recs)
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return recs, nil
}

func releaseAll(recs []arrow.Record) {
	for _, rec := range recs {
		rec.Release()
	}
}
