// Package content implements the hierarchical object model over one or more
// named filesystem roots. It resolves logical, path-like ids to filesystem
// locations and lists directory children in "human order".
package content

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/kevincox/rustymedia/internal/mediafmt"
	"github.com/kevincox/rustymedia/internal/rmerr"
)

// FileType classifies a leaf object by extension, or marks it a Directory.
type FileType int

const (
	Directory FileType = iota
	Video
	Image
	Subtitles
	Other
)

// DLNAClass returns the upnp:class value for this file type.
func (t FileType) DLNAClass() string {
	switch t {
	case Directory:
		return "object.container.storageFolder"
	case Video:
		return "object.item.videoItem"
	case Image:
		return "object.item.imageItem.photo"
	default:
		return "object.item"
	}
}

// classify is extension-based and case-sensitive: "Movie.MKV" is Other,
// not Video.
func classify(name string) FileType {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	switch ext {
	case "avi", "m4v", "mkv", "mp4":
		return Video
	case "jpg", "jpeg", "png":
		return Image
	case "srt":
		return Subtitles
	default:
		return Other
	}
}

// Object is a content-tree node: either the virtual root ("0"), a named
// root directory, or a path beneath one.
type Object struct {
	id       string
	parentID string
	title    string
	fileType FileType
	fsPath   string // empty only for the virtual root
}

const (
	VirtualRootID = "0"
	NoParentID    = "-1"
)

func (o *Object) ID() string         { return o.id }
func (o *Object) ParentID() string   { return o.parentID }
func (o *Object) Title() string      { return o.title }
func (o *Object) FileType() FileType { return o.fileType }
func (o *Object) IsDir() bool        { return o.fileType == Directory }
func (o *Object) DLNAClass() string  { return o.fileType.DLNAClass() }

// FSPath is the resolved, escape-checked filesystem path. Empty for the
// virtual root, which has no backing file.
func (o *Object) FSPath() string { return o.fsPath }

// ProbeInput adapts this object for mediafmt.Probe: every object in this
// tree is backed by a real file, so it is always the path form of Input.
func (o *Object) ProbeInput() mediafmt.Input {
	return mediafmt.Input{Path: o.fsPath}
}

// Tree holds the named roots in registration order and resolves ids
// beneath them.
type Tree struct {
	order []string
	roots map[string]string // name -> absolute filesystem path
}

func NewTree() *Tree {
	return &Tree{roots: map[string]string{}}
}

// AddRoot registers a named root. Names "0" and "-1" are reserved for the
// virtual root and its synthetic parent.
func (t *Tree) AddRoot(name, fsPath string) error {
	if name == VirtualRootID || name == NoParentID {
		return rmerr.Invalidf("root name %q is reserved", name)
	}
	if strings.Contains(name, "/") {
		return rmerr.Invalidf("root name %q must not contain '/'", name)
	}
	abs, err := filepath.Abs(fsPath)
	if err != nil {
		return fmt.Errorf("resolving root path %q: %w", fsPath, err)
	}
	if _, exists := t.roots[name]; !exists {
		t.order = append(t.order, name)
	}
	t.roots[name] = abs
	return nil
}

// Lookup resolves an id to an Object. Splits on the first '/': the first
// segment selects a root, the remainder is joined onto the root's
// filesystem path after filtering out ".." segments so the resolved path
// never escapes the root.
func (t *Tree) Lookup(id string) (*Object, error) {
	if id == NoParentID {
		return nil, fmt.Errorf("%w: %q is never resolvable", rmerr.NotFound, id)
	}
	if id == VirtualRootID {
		return &Object{
			id:       VirtualRootID,
			parentID: NoParentID,
			title:    "rustymedia",
			fileType: Directory,
		}, nil
	}

	rootName, rest := splitFirst(id)
	rootPath, ok := t.roots[rootName]
	if !ok {
		return nil, fmt.Errorf("%w: no such root %q", rmerr.NotFound, rootName)
	}

	fsPath := rootPath
	title := rootName
	if rest != "" {
		fsPath = safeJoin(rootPath, rest)
		title = path.Base(filepath.ToSlash(rest))
	}

	fi, err := os.Stat(fsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rmerr.NotFound, err)
	}

	ft := Directory
	if !fi.IsDir() {
		ft = classify(fsPath)
	}

	return &Object{
		id:       id,
		parentID: parentOf(id),
		title:    title,
		fileType: ft,
		fsPath:   fsPath,
	}, nil
}

// Children lists the direct children of a directory object in human order.
// For the virtual root, children are the registered roots themselves, kept
// in registration order: they are peers, not siblings sorted by filename.
func (t *Tree) Children(o *Object) ([]*Object, error) {
	if o.id == VirtualRootID {
		children := make([]*Object, 0, len(t.order))
		for _, name := range t.order {
			child, err := t.Lookup(name)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return children, nil
	}

	if o.fileType != Directory {
		return nil, fmt.Errorf("%w: %q", rmerr.NotADirectory, o.id)
	}

	entries, err := os.ReadDir(o.fsPath)
	if err != nil {
		return nil, fmt.Errorf("reading directory %q: %w", o.fsPath, err)
	}

	children := make([]*Object, 0, len(entries))
	for _, e := range entries {
		child, err := t.Lookup(o.id + "/" + e.Name())
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	sortHuman(children)
	return children, nil
}

func sortHuman(objs []*Object) {
	// insertion sort keeps this readable and is plenty fast for directory
	// listings; stable, so duplicate removal upstream can't reorder ties.
	for i := 1; i < len(objs); i++ {
		for j := i; j > 0 && humanLess(objs[j].title, objs[j-1].title); j-- {
			objs[j], objs[j-1] = objs[j-1], objs[j]
		}
	}
}

// RelevantChildren filters Children for listing responses: excludes Other,
// keeps Directory/Video/Image/Subtitles, already human-ordered.
func (t *Tree) RelevantChildren(o *Object) ([]*Object, error) {
	all, err := t.Children(o)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, c := range all {
		if c.fileType == Other {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func splitFirst(id string) (first, rest string) {
	if i := strings.IndexByte(id, '/'); i >= 0 {
		return id[:i], id[i+1:]
	}
	return id, ""
}

func parentOf(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[:i]
	}
	return VirtualRootID
}

// safeJoin drops every ".." segment of the given path, cleans the rest as
// if absolute, then joins it under root, so the result can never climb
// back out of root.
func safeJoin(root, given string) string {
	var kept []string
	for _, seg := range strings.Split(given, "/") {
		if seg != ".." {
			kept = append(kept, seg)
		}
	}
	return filepath.Join(root, filepath.FromSlash(path.Clean("/" + strings.Join(kept, "/")))[1:])
}
