package mrconee

// The point group of a file is never stored explicitly; it is deduced
// from the raw names of the first one or two abelian irreps. Each
// catalog entry pairs such a signature with the group label, the
// totally-symmetric irrep index and a positional rename table that
// rewrites the terse on-disk names into readable ones.
//
// Catalog order matters: entries matching on the first name alone must
// come after every entry that disambiguates the same first name by its
// second.
type groupSignature struct {
	first    string
	second   string // empty matches any second name
	label    string
	fullySym int
	rename   []string
}

func (g *groupSignature) matches(names []string) bool {
	if len(names) < 2 {
		return false
	}
	if names[0] != g.first {
		return false
	}
	return g.second == "" || names[1] == g.second
}

// Classify maps raw irrep names to a point-group label, the totally
// symmetric irrep index and a renamed copy of the table. An unknown
// signature yields "undetected", index 0 and the names untouched; that
// is a defined result, not a failure.
func Classify(names []string) (label string, fullySym int, renamed []string) {
	for i := range groupCatalog {
		g := &groupCatalog[i]
		if !g.matches(names) {
			continue
		}
		renamed = make([]string, len(names))
		copy(renamed, names)
		for k := range renamed {
			if k >= len(g.rename) {
				break
			}
			renamed[k] = g.rename[k]
		}
		return g.label, g.fullySym, renamed
	}
	return "undetected", 0, names
}

var groupCatalog = []groupSignature{
	// Spin-separated single groups (nonrelativistic runs). The "a"/"b"
	// suffix carries the Ms projection; suffix digits are spin labels
	// too and get rewritten into explicit projections.
	{
		first: "A  a", second: "A  b", label: "C1", fullySym: 4,
		rename: []string{"A_a", "A_b", "A_-3/2", "A_+3/2", "A_0", "A_2", "A_+1", "A_-1"},
	},
	{
		first: "Ag a", second: "Au a", label: "Ci", fullySym: 8,
		rename: []string{
			"Ag_a", "Au_a",
			"Ag_b", "Au_b",
			"Ag_-3/2", "Au_-3/2",
			"Ag_+3/2", "Au_+3/2",
			"Ag_0", "Au_0",
			"Ag_2", "Au_2",
			"Ag_+1", "Au_+1",
			"Ag_-1", "Au_-1",
		},
	},
	{
		first: "A  a", second: "B  a", label: "C2", fullySym: 8,
		rename: []string{
			"A_a", "B_a",
			"A_b", "B_b",
			"A_-3/2", "B_-3/2",
			"A_+3/2", "B_+3/2",
			"A_0", "B_0",
			"A_2", "B_2",
			"A_+1", "B_+1",
			"A_-1", "B_-1",
		},
	},
	{
		first: "A' a", second: "A\" a", label: "Cs", fullySym: 8,
		rename: []string{
			"A'_a", "A\"_a",
			"A'_b", "A\"_b",
			"A'_-3/2", "A\"_-3/2",
			"A'_+3/2", "A\"_+3/2",
			"A'_0", "A\"_0",
			"A'_2", "A\"_2",
			"A'_+1", "A\"_+1",
			"A'_-1", "A\"_-1",
		},
	},
	{
		first: "A1 a", label: "C2v", fullySym: 16,
		rename: []string{
			"A1_a", "B2_a", "B1_a", "A2_a",
			"A1_b", "B2_b", "B1_b", "A2_b",
			"A1_-3/2", "B2_-3/2", "B1_-3/2", "A2_-3/2",
			"A1_+3/2", "B2_+3/2", "B1_+3/2", "A2_+3/2",
			"A1_0", "B2_0", "B1_0", "A2_0",
			"A1_2", "B2_2", "B1_2", "A2_2",
			"A1_+1", "B2_+1", "B1_+1", "A2_+1",
			"A1_-1", "B2_-1", "B1_-1", "A2_-1",
		},
	},
	{
		first: "A  a", label: "D2", fullySym: 16,
		rename: []string{
			"A_a", "B3_a", "B1_a", "B2_a",
			"A_b", "B3_b", "B1_b", "B2_b",
			"A_-3/2", "B3_-3/2", "B1_-3/2", "B2_-3/2",
			"A_+3/2", "B3_+3/2", "B1_+3/2", "B2_+3/2",
			"A_0", "B3_0", "B1_0", "B2_0",
			"A_2", "B3_2", "B1_2", "B2_2",
			"A_+1", "B3_+1", "B1_+1", "B2_+1",
			"A_-1", "B3_-1", "B1_-1", "B2_-1",
		},
	},
	{
		first: "Ag a", second: "Bg a", label: "C2h", fullySym: 16,
		rename: []string{
			"Ag_a", "Bg_a", "Bu_a", "Au_a",
			"Ag_b", "Bg_b", "Bu_b", "Au_b",
			"Ag_-3/2", "Bg_-3/2", "Bu_-3/2", "Au_-3/2",
			"Ag_+3/2", "Bg_+3/2", "Bu_+3/2", "Au_+3/2",
			"Ag_0", "Bg_0", "Bu_0", "Au_0",
			"Ag_2", "Bg_2", "Bu_2", "Au_2",
			"Ag_+1", "Bg_+1", "Bu_+1", "Au_+1",
			"Ag_-1", "Bg_-1", "Bu_-1", "Au_-1",
		},
	},
	{
		first: "Ag a", label: "D2h", fullySym: 32,
		rename: []string{
			"Ag_a", "B1u_a", "B2u_a", "B3g_a", "B3u_a", "B2g_a", "B1g_a", "Au_a",
			"Ag_b", "B1u_b", "B2u_b", "B3g_b", "B3u_b", "B2g_b", "B1g_b", "Au_b",
			"Ag_-3/2", "B1u_-3/2", "B2u_-3/2", "B3g_-3/2", "B3u_-3/2", "B2g_-3/2", "B1g_-3/2", "Au_-3/2",
			"Ag_+3/2", "B1u_+3/2", "B2u_+3/2", "B3g_+3/2", "B3u_+3/2", "B2g_+3/2", "B1g_+3/2", "Au_+3/2",
			"Ag_0", "B1u_0", "B2u_0", "B3g_0", "B3u_0", "B2g_0", "B1g_0", "Au_0",
			"Ag_2", "B1u_2", "B2u_2", "B3g_2", "B3u_2", "B2g_2", "B1g_2", "Au_2",
			"Ag_+1", "B1u_+1", "B2u_+1", "B3g_+1", "B3u_+1", "B2g_+1", "B1g_+1", "Au_+1",
			"Ag_-1", "B1u_-1", "B2u_-1", "B3g_-1", "B3u_-1", "B2g_-1", "B1g_-1", "Au_-1",
		},
	},

	// Double groups (relativistic runs).
	{
		first: "   A", second: "   a", label: "C1", fullySym: 1,
		rename: []string{"A", "a"},
	},
	{
		first: "  AG", second: "  AU", label: "Ci", fullySym: 2,
		rename: []string{"AG", "AU", "ag", "au"},
	},
	{
		// These four groups share one double-group signature and cannot
		// be told apart from irrep names alone.
		first: "  1E", second: "  2E", label: "C2, Cs, C2v or D2", fullySym: 2,
		rename: []string{"1E", "2E", "a", "b"},
	},
	{
		first: " 1Eg", second: " 2Eg", label: "C2h or D2h", fullySym: 4,
		rename: []string{"1Eg", "2Eg", "1Eu", "2Eu", "ag", "bg", "au", "bu"},
	},
	{
		first: "   1", second: "  -1", label: "Cinfv", fullySym: 32,
		rename: []string{
			"1/2+", "1/2-", "3/2+", "3/2-", "5/2+", "5/2-", "7/2+", "7/2-",
			"9/2+", "9/2-", "11/2+", "11/2-", "13/2+", "13/2-", "15/2+", "15/2-",
			"17/2+", "17/2-", "19/2+", "19/2-", "21/2+", "21/2-", "23/2+", "23/2-",
			"25/2+", "25/2-", "27/2+", "27/2-", "29/2+", "29/2-", "31/2+", "31/2-",
			"0", "1+", "1-", "2+", "2-", "3+", "3-", "4+",
			"4-", "5+", "5-", "6+", "6-", "7+", "7-", "8+",
			"8-", "9+", "9-", "10+", "10-", "11+", "11-", "12+",
			"12-", "13+", "13-", "14+", "14-", "15+", "15-", "16+",
		},
	},
	{
		first: "  1g", second: " -1g", label: "Dinfh", fullySym: 32,
		rename: []string{
			"1/2g+", "1/2g-", "3/2g+", "3/2g-", "5/2g+", "5/2g-", "7/2g+", "7/2g-",
			"9/2g+", "9/2g-", "11/2g+", "11/2g-", "13/2g+", "13/2g-", "15/2g+", "15/2g-",
			"1/2u+", "1/2u-", "3/2u+", "3/2u-", "5/2u+", "5/2u-", "7/2u+", "7/2u-",
			"9/2u+", "9/2u-", "11/2u+", "11/2u-", "13/2u+", "13/2u-", "15/2u+", "15/2u-",
			"0g", "1g+", "1g-", "2g+", "2g-", "3g+", "3g-", "4g+",
			"4g-", "5g+", "5g-", "6g+", "6g-", "7g+", "7g-", "8g+",
			"0u", "1u+", "1u-", "2u+", "2u-", "3u+", "3u-", "4u+",
			"4u-", "5u+", "5u-", "6u+", "6u-", "7u+", "7u-", "8u+",
		},
	},
}
