// Package resolve turns call> and require> targets into page links.
//
// A target is looked up first next to the calling definition, then anywhere
// below the project group directory (the parent of the caller's directory).
// Unresolved targets are not errors: they produce an empty link and a
// [Warning] the caller records.
package resolve

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/digtower/pkg/errors"
)

// TieBreak picks the winner when the tree search finds several files with
// the target name.
type TieBreak int

const (
	// TieBreakLast keeps the last match in lexical walk order.
	TieBreakLast TieBreak = iota
	// TieBreakFirst keeps the first match in lexical walk order.
	TieBreakFirst
)

// ParseTieBreak maps "first" and "last" to a policy.
func ParseTieBreak(s string) (TieBreak, error) {
	if err := errors.ValidateTieBreak(s); err != nil {
		return TieBreakLast, err
	}
	if s == "first" {
		return TieBreakFirst, nil
	}
	return TieBreakLast, nil
}

// String returns "first" or "last".
func (t TieBreak) String() string {
	if t == TieBreakFirst {
		return "first"
	}
	return "last"
}

// Defaults for Resolver fields left empty.
const (
	DefaultExtension     = ".dig"
	DefaultPageExtension = "html"
)

// Resolver locates referenced definitions.
type Resolver struct {
	// Root bounds the tree search; it never climbs above this directory.
	// Empty means unbounded.
	Root string
	// Extension is the definition file extension, ".dig" by default.
	Extension string
	// PageExtension is the extension of generated pages, "html" by default.
	PageExtension string
	// TieBreak chooses among multiple tree-search matches.
	TieBreak TieBreak
	// ExcludeDir names directories skipped during the tree search.
	ExcludeDir string
	// Logger receives a warning for every unresolved target.
	Logger *log.Logger
}

// Link is the outcome of one resolution.
type Link struct {
	Target   string // target as written in the directive
	File     string // normalized definition file name, e.g. "child.dig"
	Href     string // page link; empty when unresolved
	Path     string // matched definition path; empty when unresolved
	Resolved bool
}

// Warning records a target that could not be found.
type Warning struct {
	File   string // definition that holds the directive
	Target string // directive value
}

// Normalize appends the definition extension to target if it is missing.
func (r *Resolver) Normalize(target string) string {
	ext := r.ext()
	if strings.HasSuffix(target, ext) {
		return target
	}
	return target + ext
}

// Resolve looks up target for the definition file at current. The warning
// is nil when the target resolved.
func (r *Resolver) Resolve(target, current string) (Link, *Warning) {
	name := r.Normalize(target)
	stem := strings.TrimSuffix(name, r.ext())
	link := Link{Target: target, File: name}

	if err := errors.ValidateReferenceName(target); err != nil {
		return link, r.warn(current, target)
	}

	dir := filepath.Dir(current)
	if path := filepath.Join(dir, filepath.FromSlash(name)); isFile(path) {
		link.Path = path
		link.Href = "./" + stem + "." + r.pageExt()
		link.Resolved = true
		return link, nil
	}

	if match := r.search(r.searchRoot(dir), filepath.Base(name)); match != "" {
		base := strings.TrimSuffix(filepath.Base(name), r.ext())
		link.Path = match
		link.Href = "../" + filepath.Base(filepath.Dir(match)) + "/" + base + "." + r.pageExt()
		link.Resolved = true
		return link, nil
	}

	return link, r.warn(current, target)
}

// searchRoot is the parent of dir, clamped to Root.
func (r *Resolver) searchRoot(dir string) string {
	up := filepath.Dir(dir)
	if r.Root == "" {
		return up
	}
	root := filepath.Clean(r.Root)
	rel, err := filepath.Rel(root, up)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return root
	}
	return up
}

// search walks start in lexical order and returns the match selected by
// the tie-break policy.
func (r *Resolver) search(start, base string) string {
	var match string
	_ = filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != start && r.ExcludeDir != "" && d.Name() == r.ExcludeDir {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != base {
			return nil
		}
		match = path
		if r.TieBreak == TieBreakFirst {
			return filepath.SkipAll
		}
		return nil
	})
	return match
}

func (r *Resolver) warn(current, target string) *Warning {
	if r.Logger != nil {
		r.Logger.Warn("unresolved reference", "file", current, "target", target)
	}
	return &Warning{File: current, Target: target}
}

func (r *Resolver) ext() string {
	if r.Extension == "" {
		return DefaultExtension
	}
	return r.Extension
}

func (r *Resolver) pageExt() string {
	if r.PageExtension == "" {
		return DefaultPageExtension
	}
	return r.PageExtension
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
