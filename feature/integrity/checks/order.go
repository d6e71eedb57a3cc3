package checks

import (
	"fmt"
	"sort"

	"board-sync/feature/board"
)

// OrderReport lists every scope whose order values are not exactly 0..n-1.
type OrderReport struct {
	Matched bool                   `json:"matched"`
	Scopes  map[string]ScopeReport `json:"scopes"`
	// Dangling lists entities pointing at a folder that does not exist.
	Dangling []string `json:"dangling"`
}

// ScopeReport describes one sequence, folders or items, inside one scope.
type ScopeReport struct {
	Kind       string `json:"kind"`
	Count      int    `json:"count"`
	Missing    []int  `json:"missing"`
	Duplicates []int  `json:"duplicates"`
	Status     string `json:"status"` // "ok", "error"
}

// CheckOrder inspects a snapshot for non-dense sequences and dangling folder references.
func CheckOrder(snap *board.Snapshot) *OrderReport {
	report := &OrderReport{
		Matched:  true,
		Scopes:   make(map[string]ScopeReport),
		Dangling: []string{},
	}

	folders := make(map[string]bool, len(snap.Folders))
	for _, f := range snap.Folders {
		folders[f.ID] = true
	}

	folderOrders := make(map[string][]int)
	for _, f := range snap.Folders {
		scope := board.ScopeOf(f.FolderID)
		if !scope.IsRoot() && !folders[scope.Key()] {
			report.Dangling = append(report.Dangling, "folder:"+f.ID)
		}
		folderOrders[scope.String()] = append(folderOrders[scope.String()], f.Order)
	}

	itemOrders := make(map[string][]int)
	for _, it := range snap.Items {
		scope := board.ScopeOf(it.FolderID)
		if !scope.IsRoot() && !folders[scope.Key()] {
			report.Dangling = append(report.Dangling, "item:"+it.ID)
		}
		itemOrders[scope.String()] = append(itemOrders[scope.String()], it.Order)
	}

	for scope, orders := range folderOrders {
		report.add("folders", scope, orders)
	}
	for scope, orders := range itemOrders {
		report.add("items", scope, orders)
	}
	if len(report.Dangling) > 0 {
		report.Matched = false
	}
	return report
}

// Problems returns the report keys of failing scopes, sorted.
func (r *OrderReport) Problems() []string {
	out := make([]string, 0)
	for key, s := range r.Scopes {
		if s.Status != "ok" {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func (r *OrderReport) add(kind, scope string, orders []int) {
	missing, duplicates := Density(orders)
	s := ScopeReport{
		Kind:       kind,
		Count:      len(orders),
		Missing:    missing,
		Duplicates: duplicates,
		Status:     "ok",
	}
	if len(missing) > 0 || len(duplicates) > 0 {
		s.Status = "error"
		r.Matched = false
	}
	r.Scopes[fmt.Sprintf("%s/%s", kind, scope)] = s
}

// Density compares orders against 0..len(orders)-1. It returns the expected values
// that are absent and the values seen more than once, both ascending.
func Density(orders []int) (missing, duplicates []int) {
	missing, duplicates = []int{}, []int{}
	seen := make(map[int]int, len(orders))
	for _, o := range orders {
		seen[o]++
	}
	for i := 0; i < len(orders); i++ {
		if seen[i] == 0 {
			missing = append(missing, i)
		}
	}
	for o, n := range seen {
		if n > 1 {
			duplicates = append(duplicates, o)
		}
	}
	sort.Ints(duplicates)
	return missing, duplicates
}
