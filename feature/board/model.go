package board

// Item is a leaf entry ordered within its scope (a folder, or the root when FolderID is nil).
type Item struct {
	ID       string  `gorm:"column:id;primaryKey;size:36" json:"id"`
	Title    string  `gorm:"column:title;not null" json:"title"`
	Icon     string  `gorm:"column:icon;not null" json:"icon"`
	FolderID *string `gorm:"column:folder_id;size:36;index:idx_items_scope,priority:1" json:"folderId"`
	Order    int     `gorm:"column:sort_order;not null;index:idx_items_scope,priority:2" json:"order"`
}

// TableName overrides the table name used by GORM.
func (Item) TableName() string {
	return "items"
}

// Folder groups items. Folders are ordered within their own scope, independently of items.
type Folder struct {
	ID       string  `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name     string  `gorm:"column:name;not null" json:"name"`
	IsOpen   bool    `gorm:"column:is_open;not null" json:"isOpen"`
	FolderID *string `gorm:"column:folder_id;size:36;index:idx_folders_scope,priority:1" json:"folderId"`
	Order    int     `gorm:"column:sort_order;not null;index:idx_folders_scope,priority:2" json:"order"`
}

// TableName overrides the table name used by GORM.
func (Folder) TableName() string {
	return "folders"
}

// Scope identifies a parent: a folder id, or the root when FolderID is nil.
type Scope struct {
	FolderID *string
}

// Root is the top-level scope.
func Root() Scope {
	return Scope{}
}

// InFolder returns the scope of the folder with the given id.
func InFolder(id string) Scope {
	return Scope{FolderID: &id}
}

// ScopeOf returns the scope described by an optional folder reference.
func ScopeOf(folderID *string) Scope {
	if folderID == nil {
		return Root()
	}
	return InFolder(*folderID)
}

// IsRoot reports whether s is the root scope.
func (s Scope) IsRoot() bool {
	return s.FolderID == nil
}

// Key returns a comparable representation of the scope ("" for root).
func (s Scope) Key() string {
	if s.FolderID == nil {
		return ""
	}
	return *s.FolderID
}

// Equal reports whether two scopes name the same parent.
func (s Scope) Equal(o Scope) bool {
	if s.IsRoot() || o.IsRoot() {
		return s.IsRoot() == o.IsRoot()
	}
	return *s.FolderID == *o.FolderID
}

func (s Scope) String() string {
	if s.IsRoot() {
		return "root"
	}
	return "folder:" + *s.FolderID
}
