package dataset

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/mvittori/trialgen/internal/schema"
)

// BaselineSchema returns the arrow schema for the baseline/treatment table.
func BaselineSchema() *arrow.Schema {
	return arrow.NewSchema(append(covariateFields(),
		arrow.Field{Name: schema.ColTreatment, Type: arrow.BinaryTypes.String},
	), nil)
}

// EndlineSchema returns the arrow schema for the endline table.
func EndlineSchema() *arrow.Schema {
	return arrow.NewSchema(append(covariateFields(),
		arrow.Field{Name: schema.ColTreatment, Type: arrow.BinaryTypes.String},
		arrow.Field{Name: schema.ColAwareness, Type: arrow.BinaryTypes.String},
		arrow.Field{Name: schema.ColNewVax, Type: arrow.PrimitiveTypes.Int64},
	), nil)
}

func covariateFields() []arrow.Field {
	return []arrow.Field{
		{Name: schema.ColIdentifier, Type: arrow.BinaryTypes.String},
		{Name: schema.ColGender, Type: arrow.BinaryTypes.String},
		{Name: schema.ColRace, Type: arrow.BinaryTypes.String},
		{Name: schema.ColAgeGroup, Type: arrow.BinaryTypes.String},
		{Name: schema.ColEducation, Type: arrow.BinaryTypes.String},
		{Name: schema.ColIncome, Type: arrow.BinaryTypes.String},
		{Name: schema.ColState, Type: arrow.BinaryTypes.String},
		{Name: schema.ColFBUsage, Type: arrow.PrimitiveTypes.Float64},
		{Name: schema.ColVaxPercpt, Type: arrow.PrimitiveTypes.Int64},
	}
}

// baselineRecord builds an arrow record for the baseline table. The caller
// must Release it.
func baselineRecord(mem memory.Allocator, rows []BaselineRow) arrow.Record {
	b := array.NewRecordBuilder(mem, BaselineSchema())
	defer b.Release()
	for _, r := range rows {
		b.Field(0).(*array.StringBuilder).Append(r.Identifier)
		b.Field(1).(*array.StringBuilder).Append(r.Gender)
		b.Field(2).(*array.StringBuilder).Append(r.Race)
		b.Field(3).(*array.StringBuilder).Append(r.AgeGroup)
		b.Field(4).(*array.StringBuilder).Append(r.Education)
		b.Field(5).(*array.StringBuilder).Append(r.Income)
		b.Field(6).(*array.StringBuilder).Append(r.State)
		b.Field(7).(*array.Float64Builder).Append(r.FBUsage)
		b.Field(8).(*array.Int64Builder).Append(r.VaxPercpt)
		b.Field(9).(*array.StringBuilder).Append(r.Treatment)
	}
	return b.NewRecord()
}

// endlineRecord builds an arrow record for the endline table. The caller
// must Release it.
func endlineRecord(mem memory.Allocator, rows []EndlineRow) arrow.Record {
	b := array.NewRecordBuilder(mem, EndlineSchema())
	defer b.Release()
	for _, r := range rows {
		b.Field(0).(*array.StringBuilder).Append(r.Identifier)
		b.Field(1).(*array.StringBuilder).Append(r.Gender)
		b.Field(2).(*array.StringBuilder).Append(r.Race)
		b.Field(3).(*array.StringBuilder).Append(r.AgeGroup)
		b.Field(4).(*array.StringBuilder).Append(r.Education)
		b.Field(5).(*array.StringBuilder).Append(r.Income)
		b.Field(6).(*array.StringBuilder).Append(r.State)
		b.Field(7).(*array.Float64Builder).Append(r.FBUsage)
		b.Field(8).(*array.Int64Builder).Append(r.VaxPercpt)
		b.Field(9).(*array.StringBuilder).Append(r.Treatment)
		b.Field(10).(*array.StringBuilder).Append(r.AdAwareness)
		b.Field(11).(*array.Int64Builder).Append(r.NewVaxPercpt)
	}
	return b.NewRecord()
}
