package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColspan(t *testing.T) {
	t.Parallel()

	const src = `<table><tr>
		<td>a</td><td colspan="0">b</td><td colspan="3">c</td><td colspan="x">d</td><td colspan="-2">e</td>
	</tr></table>`
	want := []int{1, 1, 3, 1, 1}
	for i, w := range want {
		assert.Equal(t, w, colspan(find(t, src, "td", i)), "cell %d", i)
	}
}

func TestTableCell(t *testing.T) {
	t.Parallel()

	const src = `<table><tr> <td>a</td> <td colspan="2">b</td> </tr></table>`
	first := find(t, src, "td", 0)
	second := find(t, src, "td", 1)

	assert.Equal(t, "| a |", tableCell("a", first))
	assert.Equal(t, " b ||", tableCell("b", second))
	assert.Equal(t, "| ab |", tableCell("a\nb", first), "newlines are stripped")
}

func TestBorderCell(t *testing.T) {
	t.Parallel()

	const src = `<table><tr><th>a</th><th colspan="2">b</th></tr></table>`
	assert.Equal(t, "| --- |", borderCell("---", find(t, src, "th", 0)))
	assert.Equal(t, " :-: | :-: |", borderCell(":-:", find(t, src, "th", 1)))
}

func TestIsHeadingRow(t *testing.T) {
	t.Parallel()

	const plain = `<table>
		<tr><td>1</td></tr>
		<tr><td>2</td></tr>
	</table>`
	const sectioned = `<table>
		<thead><tr><th>h1</th></tr><tr><th>h2</th></tr></thead>
		<tbody><tr><td>1</td></tr><tr><td>2</td></tr></tbody>
	</table>`
	const grouped = `<table><colgroup><col></colgroup><tr><td>1</td></tr><tr><td>2</td></tr></table>`

	testCases := []struct {
		name string
		src  string
		row  int
		want bool
	}{
		{"first row of bare table", plain, 0, true},
		{"second row of bare table", plain, 1, false},
		{"first thead row", sectioned, 0, true},
		{"every thead row", sectioned, 1, true},
		{"first tbody row after thead", sectioned, 2, true},
		{"later tbody row", sectioned, 3, false},
		{"first row after colgroup", grouped, 0, true},
		{"second row after colgroup", grouped, 1, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, isHeadingRow(find(t, tc.src, "tr", tc.row)))
		})
	}
}

func TestTableRow(t *testing.T) {
	t.Parallel()

	const aligned = `<table><thead><tr>
		<th align="left">A</th><th align="right">B</th><th align="center">C</th><th>D</th>
	</tr></thead><tbody><tr><td>1</td></tr><tr><td>2</td></tr></tbody></table>`

	head := find(t, aligned, "tr", 0)
	assert.Equal(t,
		"\n| A | B | C | D |\n| :-- | --: | :-: | --- |",
		tableRow("| A | B | C | D |", head),
	)

	body := find(t, aligned, "tr", 2)
	assert.Equal(t, "\n| 2 |", tableRow("| 2 |", body))

	const spanned = `<table><tr><th colspan="2">A</th><th>B</th></tr></table>`
	assert.Equal(t,
		"\n| A || B |\n| --- | --- | --- |",
		tableRow("| A || B |", find(t, spanned, "tr", 0)),
	)
}
