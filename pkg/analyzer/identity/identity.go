// Package identity derives the subject key used to join the current table,
// the historical archive and caller selections.
package identity

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/Maikl76/Aplikace-data/pkg/models"
)

// RequiredColumns are concatenated, in order, into the identity.
var RequiredColumns = []string{models.ColName, models.ColSurname, models.ColBirthDate}

// maxSuggestions bounds the "did you mean" list.
const maxSuggestions = 3

// Of joins the three identification fields with the fixed separators.
func Of(name, surname, birthDate string) string {
	return name + " " + surname + ", " + birthDate
}

// Resolve returns the identity of a single row. Absent cells contribute an
// empty string; column presence is checked by CheckColumns.
func Resolve(row models.Row) string {
	return Of(row.String(models.ColName), row.String(models.ColSurname), row.String(models.ColBirthDate))
}

// CheckColumns verifies that the table declares every required column.
func CheckColumns(t *models.Table) error {
	for _, col := range RequiredColumns {
		if !t.HasColumn(col) {
			return &MissingColumnError{Column: col}
		}
	}
	return nil
}

// Tag fills the Identifikace column of every row in place.
func Tag(t *models.Table) error {
	if err := CheckColumns(t); err != nil {
		return err
	}
	t.AddColumn(models.ColIdentity)
	for _, r := range t.Rows {
		r[models.ColIdentity] = models.Cell{Raw: Resolve(r)}
	}
	return nil
}

// List returns the distinct identities of a table in row order.
func List(t *models.Table) []string {
	seen := make(map[string]bool, len(t.Rows))
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		id := Resolve(r)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Find returns the first row carrying id. Later duplicates are ignored.
func Find(t *models.Table, id string) (models.Row, error) {
	for _, r := range t.Rows {
		if Resolve(r) == id {
			return r, nil
		}
	}
	return nil, &NotFoundError{Identity: id, Suggestions: Suggest(id, List(t))}
}

// Suggest returns up to three known identities closest to id by edit
// distance. Candidates further away than half the query length are skipped.
func Suggest(id string, known []string) []string {
	type scored struct {
		id   string
		dist int
	}
	limit := len([]rune(id))/2 + 1
	query := strings.ToLower(id)

	var candidates []scored
	for _, k := range known {
		d := levenshtein.ComputeDistance(query, strings.ToLower(k))
		if d <= limit {
			candidates = append(candidates, scored{k, d})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	n := min(len(candidates), maxSuggestions)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = candidates[i].id
	}
	return out
}

var unsafeChars = strings.NewReplacer(
	`\`, "_", "/", "_", "*", "_", "?", "_", ":", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// Sanitize makes an identity safe for use in a file name.
func Sanitize(id string) string {
	return unsafeChars.Replace(id)
}
