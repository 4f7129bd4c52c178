package diag

import (
	"testing"

	"weft/internal/source"
)

func mkDiag(file source.FileID, start, end uint32, sev Severity, code Code) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  "msg",
		Primary:  source.Span{File: file, Start: start, End: end},
	}
}

func TestBagSortOrdering(t *testing.T) {
	cases := []struct {
		name string
		in   []Diagnostic
		want []Code
	}{
		{
			name: "by file then offset",
			in: []Diagnostic{
				mkDiag(1, 0, 4, SevError, SynUnclosedTag),
				mkDiag(0, 20, 24, SevError, SynStrayClose),
				mkDiag(0, 3, 8, SevError, LexUnknownChar),
			},
			want: []Code{LexUnknownChar, SynStrayClose, SynUnclosedTag},
		},
		{
			name: "by end when starts match",
			in: []Diagnostic{
				mkDiag(0, 5, 12, SevError, SynMismatchedClose),
				mkDiag(0, 5, 7, SevError, LexBadNumber),
			},
			want: []Code{LexBadNumber, SynMismatchedClose},
		},
		{
			name: "errors before warnings on the same span",
			in: []Diagnostic{
				mkDiag(0, 5, 9, SevWarning, LexInfo),
				mkDiag(0, 5, 9, SevError, SynUnexpectedToken),
			},
			want: []Code{SynUnexpectedToken, LexInfo},
		},
		{
			name: "code breaks the final tie",
			in: []Diagnostic{
				mkDiag(0, 5, 9, SevError, SynExpectAttrValue),
				mkDiag(0, 5, 9, SevError, SynExpectTagName),
			},
			want: []Code{SynExpectTagName, SynExpectAttrValue},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bag := NewBag(16)
			for _, d := range tc.in {
				bag.Add(d)
			}
			bag.Sort()

			items := bag.Items()
			if len(items) != len(tc.want) {
				t.Fatalf("len = %d, want %d", len(items), len(tc.want))
			}
			for i, d := range items {
				if d.Code != tc.want[i] {
					t.Errorf("items[%d].Code = %s, want %s", i, d.Code, tc.want[i])
				}
			}
		})
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(16)
	bag.Add(mkDiag(0, 3, 8, SevError, SynUnclosedTag))
	// точный дубликат — схлопывается
	bag.Add(mkDiag(0, 3, 8, SevError, SynUnclosedTag))
	// другой span, код или файл — остаются
	bag.Add(mkDiag(0, 3, 9, SevError, SynUnclosedTag))
	bag.Add(mkDiag(0, 3, 8, SevError, SynStrayClose))
	bag.Add(mkDiag(1, 3, 8, SevError, SynUnclosedTag))

	bag.Dedup()

	if bag.Len() != 4 {
		t.Fatalf("Len = %d, want 4", bag.Len())
	}
}

func TestBagDedupKeepsFirst(t *testing.T) {
	bag := NewBag(4)
	first := mkDiag(0, 0, 2, SevError, SynUnclosedTag)
	first.Message = "first"
	second := first
	second.Message = "second"
	bag.Add(first)
	bag.Add(second)

	bag.Dedup()

	if bag.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bag.Len())
	}
	if got := bag.Items()[0].Message; got != "first" {
		t.Errorf("Message = %q, want %q", got, "first")
	}
}
