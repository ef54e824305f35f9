package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table {
	table := NewTable("a", "b", "c")
	require.NoError(t, table.AppendRow(TextCell("a1"), TextCell("b1"), TextCell("c1")))
	require.NoError(t, table.AppendRow(TextCell("a2"), MissingCell(), NumberCell(2)))
	return table
}

func TestAppendRowLengthMismatch(t *testing.T) {
	table := NewTable("a", "b")
	assert.Error(t, table.AppendRow(TextCell("only one")))
	assert.Equal(t, 0, table.Len())
}

func TestSplitColumnKeepsPosition(t *testing.T) {
	table := newTestTable(t)

	ok := table.SplitColumn("b", []string{"b_0", "b_1"}, func(c Cell) []Cell {
		if c.IsMissing() {
			return nil
		}
		return []Cell{TextCell(c.String() + "x"), TextCell(c.String() + "y")}
	})
	require.True(t, ok)

	assert.Equal(t, []string{"a", "b_0", "b_1", "c"}, table.Columns())
	assert.Equal(t, "b1x", table.Value(0, "b_0").String())
	assert.Equal(t, "b1y", table.Value(0, "b_1").String())
	assert.True(t, table.Value(1, "b_0").IsMissing(), "short results are padded")
	assert.True(t, table.Value(1, "b_1").IsMissing())
	assert.Equal(t, "c1", table.Value(0, "c").String())

	assert.False(t, table.SplitColumn("nope", []string{"x"}, nil))
}

func TestInsertAfterAndDrop(t *testing.T) {
	table := newTestTable(t)

	require.True(t, table.InsertAfter("a", "a_len", func(c Cell) Cell {
		return NumberCell(float64(len(c.String())))
	}))
	assert.Equal(t, []string{"a", "a_len", "b", "c"}, table.Columns())
	n, ok := table.Value(1, "a_len").Number()
	assert.True(t, ok)
	assert.Equal(t, 2.0, n)

	require.True(t, table.DropColumn("a"))
	assert.Equal(t, []string{"a_len", "b", "c"}, table.Columns())
	assert.Len(t, table.Row(0), 3)
	assert.False(t, table.DropColumn("a"))
}

func TestCloneIsDeep(t *testing.T) {
	table := newTestTable(t)
	clone := table.Clone()

	clone.MapColumn("a", func(Cell) Cell { return TextCell("changed") })
	clone.DropColumn("c")

	assert.Equal(t, "a1", table.Value(0, "a").String())
	assert.True(t, table.HasColumn("c"))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "15000", NumberCell(15000).String())
	assert.Equal(t, "2.5", NumberCell(2.5).String())
	assert.Equal(t, "", MissingCell().String())
	assert.Equal(t, "Melns", TextCell("Melns").String())

	_, ok := TextCell("1").Number()
	assert.False(t, ok)
}

func TestValueOfUnknownColumn(t *testing.T) {
	table := newTestTable(t)
	assert.True(t, table.Value(0, "unknown").IsMissing())
	assert.Equal(t, -1, table.ColumnIndex("unknown"))
}
