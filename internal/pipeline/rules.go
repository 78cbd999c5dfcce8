package pipeline

import (
	"listingsheet/internal"
)

const (
	ColumnName        = "Name"
	ColumnAddress     = "Address"
	ColumnDescription = "Description of Business"
	ColumnPhone       = "Phone Number"
	ColumnWhatsApp    = "WhatsApp Link"

	noiseColumn = "Field 4"
	phoneColumn = "Field 5"

	leadingColumns = 5
)

// ColumnRule is one named table transformation. Rules never fail; a rule whose
// columns are missing leaves the table as it is.
type ColumnRule struct {
	Tag   string
	Apply func(t *internal.Table)
}

// RuleSet runs its rules in order.
type RuleSet []ColumnRule

func (rs RuleSet) Apply(t *internal.Table) {
	for _, rule := range rs {
		rule.Apply(t)
	}
}

func (rs RuleSet) Tags() []string {
	out := make([]string, 0, len(rs))
	for _, rule := range rs {
		out = append(out, rule.Tag)
	}
	return out
}

// DirectoryListingRules is the column layout of the restaurant directory
// listing: icon labels in field 4, contact line in field 5.
func DirectoryListingRules() RuleSet {
	return RuleSet{
		DropColumn(noiseColumn),
		DerivePhoneColumn(phoneColumn, ColumnWhatsApp),
		DropEmptyColumns(),
		KeepLeading(leadingColumns, ColumnWhatsApp),
		RenameColumns(map[string]string{
			"Field 1": ColumnName,
			"Field 2": ColumnAddress,
			"Field 3": ColumnDescription,
			"Field 4": ColumnPhone,
			"Field 5": ColumnPhone,
		}),
	}
}

func DropColumn(name string) ColumnRule {
	return ColumnRule{
		Tag: "drop:" + name,
		Apply: func(t *internal.Table) {
			t.Drop(name)
		},
	}
}

// DerivePhoneColumn cleans source in place with ExtractPhone and appends the
// matching WhatsApp links as linkColumn.
func DerivePhoneColumn(source, linkColumn string) ColumnRule {
	return ColumnRule{
		Tag: "phone:" + source,
		Apply: func(t *internal.Table) {
			col := t.Column(source)
			if col == nil {
				return
			}
			links := make([]string, len(col.Values))
			for i, v := range col.Values {
				col.Values[i] = ExtractPhone(v)
				links[i] = WhatsAppLink(col.Values[i])
			}
			t.Append(internal.Column{Name: linkColumn, Values: links})
		},
	}
}

func DropEmptyColumns() ColumnRule {
	return ColumnRule{
		Tag: "drop-empty",
		Apply: func(t *internal.Table) {
			kept := t.Columns[:0]
			for _, col := range t.Columns {
				if !allEmpty(col.Values) {
					kept = append(kept, col)
				}
			}
			t.Columns = kept
		},
	}
}

// KeepLeading keeps the first n columns not listed in extra, followed by the
// extra columns that exist.
func KeepLeading(n int, extra ...string) ColumnRule {
	return ColumnRule{
		Tag: "keep-leading",
		Apply: func(t *internal.Table) {
			isExtra := map[string]bool{}
			for _, name := range extra {
				isExtra[name] = true
			}
			kept := make([]internal.Column, 0, n+len(extra))
			for _, col := range t.Columns {
				if len(kept) == n {
					break
				}
				if !isExtra[col.Name] {
					kept = append(kept, col)
				}
			}
			for _, name := range extra {
				if col := t.Column(name); col != nil {
					kept = append(kept, *col)
				}
			}
			t.Columns = kept
		},
	}
}

// RenameColumns renames by lookup. A rename onto a name another column already
// carries is skipped so names stay unique.
func RenameColumns(mapping map[string]string) ColumnRule {
	return ColumnRule{
		Tag: "rename",
		Apply: func(t *internal.Table) {
			for i := range t.Columns {
				to, ok := mapping[t.Columns[i].Name]
				if !ok || to == t.Columns[i].Name {
					continue
				}
				if t.Has(to) {
					continue
				}
				t.Columns[i].Name = to
			}
		},
	}
}

func allEmpty(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}
