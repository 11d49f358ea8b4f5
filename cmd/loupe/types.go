package main

// CLIResult is the top-level JSON envelope for all query commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLISymbol is a JSON-friendly symbol representation.
type CLISymbol struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	QualifiedName string `json:"qualified_name,omitempty"`
	Visibility    string `json:"visibility,omitempty"`
	Exported      bool   `json:"exported"`
	File          string `json:"file,omitempty"`
	StartLine     int    `json:"start_line"`
	StartCol      int    `json:"start_col"`
	EndLine       int    `json:"end_line"`
	EndCol        int    `json:"end_col"`
}

// CLITodo is a JSON-friendly TODO item.
type CLITodo struct {
	File     string `json:"file"`
	Kind     string `json:"kind"`
	Text     string `json:"text,omitempty"`
	Author   string `json:"author,omitempty"`
	Priority int    `json:"priority"`
	Line     int    `json:"line"`
}

// CLIFile is a JSON-friendly file representation.
type CLIFile struct {
	ID       int64  `json:"id"`
	Path     string `json:"path"`
	Language string `json:"language"`
	Hash     string `json:"hash,omitempty"`
}

// CLICall is a JSON-friendly call site.
type CLICall struct {
	Callee      string `json:"callee"`
	Qualified   string `json:"qualified,omitempty"`
	Constructor bool   `json:"constructor,omitempty"`
	File        string `json:"file"`
	Line        int    `json:"line"`
}

// CLIUnused is a JSON-friendly unused-symbol finding.
type CLIUnused struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Line      int    `json:"line"`
	CanRemove bool   `json:"can_remove"`
	FixAction string `json:"fix_action,omitempty"`
}
