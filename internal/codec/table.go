package codec

import (
	"fmt"

	"inferd/pkg/types"
)

// Table is the composite native value produced by the "pd" request codec:
// one named column per request input, column-matched by input name. All
// columns have the same length.
type Table struct {
	Columns []Column
}

// Column is one named column of a Table. Values holds a flat typed slice:
// []int64, []float64, []bool, []string, or [][]byte.
type Column struct {
	Name   string
	Values any
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Rows returns the shared column length; zero for an empty table.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return columnLen(t.Columns[0].Values)
}

// TableCodec is the "pd" request codec. It aggregates all inputs of a
// request into a Table before invocation, decoding each input through the
// per-input codec path, so the full resolution precedence (explicit tensor
// parameter, model metadata, datatype default) applies to every column.
type TableCodec struct {
	reg *Registry
}

// NewTableCodec binds a table codec to the registry used for column decoding.
func NewTableCodec(reg *Registry) TableCodec { return TableCodec{reg: reg} }

func (TableCodec) ContentType() string { return ContentTypeTable }

func (c TableCodec) registry() *Registry {
	if c.reg == nil {
		return Default()
	}
	return c.reg
}

func (c TableCodec) DecodeRequest(req *types.InferenceRequest, meta *types.ModelMetadata) (any, error) {
	table := &Table{Columns: make([]Column, 0, len(req.Inputs))}
	rows := -1
	for i := range req.Inputs {
		in := &req.Inputs[i]
		cc, err := InputCodec(c.registry(), in, meta)
		if err != nil {
			return nil, err
		}
		v, err := cc.Decode(in)
		if err != nil {
			return nil, err
		}
		values, err := asColumn(in.Name, v)
		if err != nil {
			return nil, err
		}
		n := columnLen(values)
		if rows >= 0 && n != rows {
			return nil, ErrMalformedPayload(in.Name, fmt.Sprintf("column has %d rows, table has %d", n, rows))
		}
		rows = n
		table.Columns = append(table.Columns, Column{Name: in.Name, Values: values})
	}
	return table, nil
}

func (c TableCodec) EncodeResponse(v any) ([]types.Tensor, error) {
	table, ok := v.(*Table)
	if !ok {
		return nil, ErrMalformedPayload("request", fmt.Sprintf("cannot encode %T as a table", v))
	}
	outputs := make([]types.Tensor, 0, len(table.Columns))
	for _, col := range table.Columns {
		t, err := encodeColumn(col)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, *t)
	}
	return outputs, nil
}

// asColumn normalizes a per-input decode result into a flat column payload.
func asColumn(input string, v any) (any, error) {
	switch d := v.(type) {
	case *Array:
		if len(d.Shape) > 1 {
			return nil, ErrMalformedPayload(input, fmt.Sprintf("column must be one-dimensional, shape is %v", d.Shape))
		}
		return d.Data, nil
	case string:
		return []string{d}, nil
	case []string:
		return d, nil
	case [][]byte:
		return d, nil
	}
	return nil, ErrMalformedPayload(input, fmt.Sprintf("cannot use %T as a table column", v))
}

// encodeColumn picks the wire codec from the column's value type.
func encodeColumn(col Column) (*types.Tensor, error) {
	switch d := col.Values.(type) {
	case []int64:
		return ArrayCodec{}.Encode(col.Name, &Array{Datatype: types.Int64, Data: d})
	case []float64:
		return ArrayCodec{}.Encode(col.Name, &Array{Datatype: types.Fp64, Data: d})
	case []bool:
		return ArrayCodec{}.Encode(col.Name, &Array{Datatype: types.Bool, Data: d})
	case []string:
		return TextCodec{}.Encode(col.Name, d)
	case [][]byte:
		return Base64Codec{}.Encode(col.Name, d)
	}
	return nil, ErrMalformedPayload(col.Name, fmt.Sprintf("cannot encode %T as a table column", col.Values))
}

func columnLen(values any) int {
	switch d := values.(type) {
	case []int64:
		return len(d)
	case []float64:
		return len(d)
	case []bool:
		return len(d)
	case []string:
		return len(d)
	case [][]byte:
		return len(d)
	}
	return 0
}
