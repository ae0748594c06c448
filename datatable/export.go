package datatable

import (
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// arrowType maps a column type to the Arrow type used on export.
func arrowType(dt DataType) arrow.DataType {
	switch dt {
	case TypeInt:
		return arrow.PrimitiveTypes.Int64
	case TypeFloat:
		return arrow.PrimitiveTypes.Float64
	case TypeBool:
		return arrow.FixedWidthTypes.Boolean
	case TypeTimestamp:
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

// Schema builds the Arrow schema of a data source.
func Schema(src DataSource) (*arrow.Schema, error) {
	if src == nil {
		return nil, ErrNoDataSource
	}
	fields := make([]arrow.Field, src.ColumnCount())
	for i := range fields {
		name, err := src.ColumnName(i)
		if err != nil {
			return nil, err
		}
		dt, err := src.ColumnType(i)
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: name, Type: arrowType(dt), Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}

// ToRecord copies the rows of src, in their current order, into an Arrow
// record. The caller releases the record.
func ToRecord(src DataSource, mem memory.Allocator) (arrow.Record, error) {
	schema, err := Schema(src)
	if err != nil {
		return nil, err
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for row := 0; row < src.RowCount(); row++ {
		values, err := src.Row(row)
		if err != nil {
			return nil, err
		}
		for col, v := range values {
			if err := appendValue(b.Field(col), v); err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", row, col, err)
			}
		}
	}
	return b.NewRecord(), nil
}

func appendValue(fb array.Builder, v Value) error {
	if v.IsNull || v.Raw == nil {
		fb.AppendNull()
		return nil
	}
	switch b := fb.(type) {
	case *array.Int64Builder:
		k := keyOf(v.Raw)
		if k.kind != kindNumber {
			return fmt.Errorf("%w: %v is not a number", ErrExportFailed, v.Raw)
		}
		if k.exact {
			b.Append(k.i)
		} else {
			b.Append(int64(k.f))
		}
	case *array.Float64Builder:
		k := keyOf(v.Raw)
		if k.kind != kindNumber {
			return fmt.Errorf("%w: %v is not a number", ErrExportFailed, v.Raw)
		}
		b.Append(k.f)
	case *array.BooleanBuilder:
		bv, ok := v.Raw.(bool)
		if !ok {
			return fmt.Errorf("%w: %v is not a bool", ErrExportFailed, v.Raw)
		}
		b.Append(bv)
	case *array.TimestampBuilder:
		k := keyOf(v.Raw)
		if k.kind != kindTime {
			return fmt.Errorf("%w: %v is not a timestamp", ErrExportFailed, v.Raw)
		}
		b.Append(arrow.Timestamp(k.t.UnixMicro()))
	case *array.StringBuilder:
		b.Append(v.Formatted)
	default:
		fb.AppendNull()
	}
	return nil
}

// ExportParquet writes the rows of src to a snappy-compressed Parquet file.
func ExportParquet(src DataSource, filePath string) error {
	rec, err := ToRecord(src, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	defer rec.Release()

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(rec.Schema(), file, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write rows to parquet: %w", err)
	}
	return writer.Close()
}

// ExportCSV writes the rows of src to a CSV file with a header line.
func ExportCSV(src DataSource, filePath string) error {
	rec, err := ToRecord(src, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	defer rec.Release()

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file, rec.Schema(), csv.WithHeader(true))
	if err := w.Write(rec); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return w.Error()
}
