package storage

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultTag = "cms"

	// Reserved segments that occupy the owner position without being owners.
	SegmentGlobal = "global"
	SegmentLast   = "last"
)

// Namespace maps owner-scoped data to keys of the form
// <tag>_<ownerId>_<name>.
type Namespace struct {
	Tag string
}

func DefaultNamespace() Namespace {
	return Namespace{Tag: DefaultTag}
}

func (n Namespace) prefix() string {
	return n.Tag + "_"
}

var segmentEscaper = strings.NewReplacer("%", "%25", "_", "%5F")

// ownerSegment escapes owner so that it never contains the separator and
// never reads as a reserved segment. Owner ids are opaque strings.
func ownerSegment(owner string) string {
	seg := segmentEscaper.Replace(owner)
	if seg == SegmentGlobal || seg == SegmentLast {
		seg = fmt.Sprintf("%%%02X%s", seg[0], seg[1:])
	}
	return seg
}

// Key is the owner-scoped key for name.
func (n Namespace) Key(owner, name string) string {
	return n.prefix() + ownerSegment(owner) + "_" + name
}

// Global is a key that belongs to no owner and survives sweeps.
func (n Namespace) Global(name string) string {
	return n.prefix() + SegmentGlobal + "_" + name
}

// ActiveOwnerKey holds the id of the last signed-in owner.
func (n Namespace) ActiveOwnerKey() string {
	return n.prefix() + SegmentLast + "_user_id"
}

// Owner extracts the owner segment of key. scoped is false for keys outside
// the namespace and for reserved segments. A tagged key with an empty owner
// segment is scoped with owner "".
func (n Namespace) Owner(key string) (owner string, scoped bool) {
	rest, ok := strings.CutPrefix(key, n.prefix())
	if !ok {
		return "", false
	}
	seg, _, _ := strings.Cut(rest, "_")
	if seg == SegmentGlobal || seg == SegmentLast {
		return "", false
	}
	owner, err := url.PathUnescape(seg)
	if err != nil {
		// Not written by Key; keep the raw segment so it never matches an owner.
		return seg, true
	}
	return owner, true
}

// Owns reports whether key was written by Key for owner.
func (n Namespace) Owns(key, owner string) bool {
	if owner == "" {
		return false
	}
	own := n.prefix() + ownerSegment(owner)
	return key == own || strings.HasPrefix(key, own+"_")
}

// Foreign reports whether key is owner-scoped data not belonging to current.
func (n Namespace) Foreign(key, current string) bool {
	_, scoped := n.Owner(key)
	return scoped && !n.Owns(key, current)
}
