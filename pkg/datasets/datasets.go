// Package datasets loads initial labeled candidate pools from Parquet and
// CSV files. Sequences are NFC-normalized before duplicate detection so that
// visually identical strings with different byte encodings collapse to one
// pool entry.
package datasets

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/apache/arrow/go/v13/parquet/file"
	"github.com/apache/arrow/go/v13/parquet/pqarrow"
	"golang.org/x/text/unicode/norm"

	"github.com/XiaoConstantine/lambo-go/pkg/core"
	"github.com/XiaoConstantine/lambo-go/pkg/errors"
	"github.com/XiaoConstantine/lambo-go/pkg/logging"
)

// LoadPoolFromParquet reads a labeled pool from a Parquet file. seqCol names
// the sequence column; objCols name the objective columns in order. Duplicate
// sequences after normalization are dropped, first occurrence wins.
func LoadPoolFromParquet(ctx context.Context, path, seqCol string, objCols []string) (*core.Pool, error) {
	if len(objCols) == 0 {
		return nil, errors.New(errors.InvalidInput, "at least one objective column is required")
	}

	reader, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, errors.ResourceNotFound, "failed to open parquet file")
	}
	defer reader.Close()

	arrowReader, err := pqarrow.NewFileReader(reader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to create arrow reader")
	}

	schema, err := arrowReader.Schema()
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to read parquet schema")
	}

	seqIdx, err := fieldIndex(schema.FieldIndices(seqCol), seqCol)
	if err != nil {
		return nil, err
	}
	objIdx := make([]int, len(objCols))
	for i, name := range objCols {
		objIdx[i], err = fieldIndex(schema.FieldIndices(name), name)
		if err != nil {
			return nil, err
		}
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to read parquet table")
	}
	defer table.Release()

	sequences, err := stringColumn(table.Column(seqIdx).Data().Chunks(), int(table.NumRows()))
	if err != nil {
		return nil, errors.WithFields(err, errors.Fields{"column": seqCol})
	}

	objectives := make([][]float64, int(table.NumRows()))
	for i := range objectives {
		objectives[i] = make([]float64, len(objCols))
	}
	for j, idx := range objIdx {
		values, err := floatColumn(table.Column(idx).Data().Chunks(), int(table.NumRows()))
		if err != nil {
			return nil, errors.WithFields(err, errors.Fields{"column": objCols[j]})
		}
		for i, v := range values {
			objectives[i][j] = v
		}
	}

	return buildPool(ctx, path, sequences, objectives)
}

// LoadPoolFromCSV reads a labeled pool from a headerless-format CSV file:
// the first column holds the sequence and every remaining column one
// objective value. A header row is detected by its non-numeric second field
// and skipped.
func LoadPoolFromCSV(ctx context.Context, path string) (*core.Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ResourceNotFound, "failed to open csv file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var sequences []string
	var objectives [][]float64
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.InvalidInput, "failed to parse csv file")
		}
		line++
		if len(record) < 2 {
			return nil, errors.WithFields(
				errors.New(errors.InvalidInput, "csv row needs a sequence and at least one objective"),
				errors.Fields{"line": line})
		}

		objs := make([]float64, len(record)-1)
		parsed := true
		for i, field := range record[1:] {
			v, perr := strconv.ParseFloat(field, 64)
			if perr != nil {
				parsed = false
				break
			}
			objs[i] = v
		}
		if !parsed {
			if line == 1 {
				continue // header row
			}
			return nil, errors.WithFields(
				errors.New(errors.InvalidInput, "non-numeric objective value"),
				errors.Fields{"line": line})
		}

		sequences = append(sequences, record[0])
		objectives = append(objectives, objs)
	}

	return buildPool(ctx, path, sequences, objectives)
}

// buildPool normalizes, dedups, and wraps raw rows into a pool. The file path
// becomes the ancestor label for every loaded candidate.
func buildPool(ctx context.Context, source string, sequences []string, objectives [][]float64) (*core.Pool, error) {
	logger := logging.GetLogger()

	pool := core.NewPool()
	dropped := 0
	for i, seq := range sequences {
		normalized := norm.NFC.String(seq)
		if !pool.Append(core.NewCandidate(source, normalized), objectives[i]) {
			dropped++
		}
	}
	if dropped > 0 {
		logger.Warn(ctx, "dropped %d duplicate sequences while loading %s", dropped, source)
	}
	if pool.Len() == 0 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "no usable rows in dataset"),
			errors.Fields{"source": source})
	}

	logger.Info(ctx, "loaded %d candidates from %s", pool.Len(), source)
	return pool, nil
}

func fieldIndex(indices []int, name string) (int, error) {
	if len(indices) == 0 {
		return 0, errors.WithFields(
			errors.New(errors.InvalidInput, "column not found in parquet schema"),
			errors.Fields{"column": name})
	}
	return indices[0], nil
}

// stringColumn flattens a chunked string column into a slice.
func stringColumn(chunks []arrow.Array, numRows int) ([]string, error) {
	out := make([]string, 0, numRows)
	for _, chunk := range chunks {
		col, ok := chunk.(*array.String)
		if !ok {
			return nil, errors.New(errors.InvalidInput, "expected a string column")
		}
		for i := 0; i < col.Len(); i++ {
			out = append(out, col.Value(i))
		}
	}
	return out, nil
}

// floatColumn flattens a chunked numeric column into a float64 slice.
func floatColumn(chunks []arrow.Array, numRows int) ([]float64, error) {
	out := make([]float64, 0, numRows)
	for _, chunk := range chunks {
		switch col := chunk.(type) {
		case *array.Float64:
			for i := 0; i < col.Len(); i++ {
				out = append(out, col.Value(i))
			}
		case *array.Float32:
			for i := 0; i < col.Len(); i++ {
				out = append(out, float64(col.Value(i)))
			}
		default:
			return nil, errors.New(errors.InvalidInput, "expected a floating-point column")
		}
	}
	return out, nil
}
