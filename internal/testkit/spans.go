// Package testkit holds checks shared by front-end tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"svdump/internal/ast"
	"svdump/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span lies within the file content and points at sf
// 2) every module span is non-empty and contained in file.Span
// 3) every module member span is contained in its module span
// Members that came from an `include live in another file and are skipped.
func CheckSpanInvariants(u *ast.Unit, sf *source.File) error {
	if u == nil || u.File == nil || u.Builder == nil || sf == nil {
		return fmt.Errorf("nil unit or file")
	}
	f, b := u.File, u.Builder

	// 1) file span sanity
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent || f.Span.Start > f.Span.End {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, lenContent)
	}

	// 2) modules inside the file
	for _, id := range f.Modules {
		mod := b.Items.Get(id)
		if mod == nil {
			return fmt.Errorf("nil item for id=%d", id)
		}
		sp := mod.Span
		if sp.File != sf.ID {
			continue
		}
		if sp.End <= sp.Start {
			return fmt.Errorf("empty span of module %s: %v", mod.Name, sp)
		}
		if sp.Start < f.Span.Start || sp.End > f.Span.End {
			return fmt.Errorf("module %s span %v is outside file span %v", mod.Name, sp, f.Span)
		}
		data, ok := b.Items.Module(id)
		if !ok {
			return fmt.Errorf("item %d is not a module", id)
		}

		// 3) members inside the module
		members := make([]ast.ItemID, 0, len(data.Params)+len(data.Ports)+len(data.Body))
		members = append(members, data.Params...)
		members = append(members, data.Ports...)
		members = append(members, data.Body...)
		for _, mid := range members {
			it := b.Items.Get(mid)
			if it == nil {
				return fmt.Errorf("nil member id=%d in module %s", mid, mod.Name)
			}
			if it.Span.File != sf.ID {
				continue
			}
			if it.Span.Start > it.Span.End {
				return fmt.Errorf("inverted span %v in module %s", it.Span, mod.Name)
			}
			if it.Span.Start < sp.Start || it.Span.End > sp.End {
				return fmt.Errorf("member %q span %v is outside module %s span %v", it.Name, it.Span, mod.Name, sp)
			}
		}
	}
	return nil
}
