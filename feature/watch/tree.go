package watch

import (
	"fmt"
	"strings"

	"board-sync/feature/board"
)

const indent = "    "

// Row is one line of the rendered board.
type Row struct {
	Depth  int
	Folder *board.Folder
	Item   *board.Item
	// Hidden counts the items of a closed folder.
	Hidden int
}

// Rows flattens a snapshot the way the board is displayed: every root folder first,
// each open folder followed by its items, then the root items.
func Rows(snap *board.Snapshot) []Row {
	if snap == nil {
		return nil
	}

	rows := make([]Row, 0, len(snap.Items)+len(snap.Folders))
	for _, f := range snap.FoldersIn(board.Root()) {
		children := snap.ItemsIn(board.InFolder(f.ID))
		if !f.IsOpen {
			rows = append(rows, Row{Folder: &f, Hidden: len(children)})
			continue
		}
		rows = append(rows, Row{Folder: &f})
		for c := range children {
			rows = append(rows, Row{Depth: 1, Item: &children[c]})
		}
	}

	items := snap.ItemsIn(board.Root())
	for i := range items {
		rows = append(rows, Row{Item: &items[i]})
	}
	return rows
}

// Render draws rows as styled text. showOrder appends each entry's order.
func Render(rows []Row, showOrder bool) string {
	if len(rows) == 0 {
		return mutedStyle.Render("(empty board)") + "\n"
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(strings.Repeat(indent, r.Depth))
		switch {
		case r.Folder != nil && r.Folder.IsOpen:
			b.WriteString(folderStyle.Render("▾ " + r.Folder.Name))
		case r.Folder != nil:
			b.WriteString(closedStyle.Render(fmt.Sprintf("▸ %s (%d)", r.Folder.Name, r.Hidden)))
		default:
			b.WriteString(r.Item.Icon + " " + r.Item.Title)
		}
		if showOrder {
			order := 0
			if r.Folder != nil {
				order = r.Folder.Order
			} else {
				order = r.Item.Order
			}
			b.WriteString(orderStyle.Render(fmt.Sprintf("  #%d", order)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
