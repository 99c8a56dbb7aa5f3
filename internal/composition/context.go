// Package composition lets a question refer to generated sub-results by name.
//
// A Context is created for one question, grows append-only while the question
// is built, and is dropped afterwards. It is never shared between goroutines.
package composition

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rpgo/mathgen/internal/display"
)

var (
	// ErrDuplicateHandle is returned by Bind when the handle is already taken
	ErrDuplicateHandle = errors.New("composition: duplicate entity handle")
	// ErrMissingArgument is returned when a template names an argument that was not supplied
	ErrMissingArgument = errors.New("composition: missing template argument")
	// ErrMalformedTemplate is returned for unbalanced braces
	ErrMalformedTemplate = errors.New("composition: malformed template")
	// ErrForeignEntity is returned when an argument was created by another context
	ErrForeignEntity = errors.New("composition: entity belongs to another context")
)

// SelfPlaceholder in an entity description is replaced with the entity's handle
const SelfPlaceholder = "{self}"

// Entity is a named sub-result. It is immutable once created.
type Entity struct {
	Index       int
	Handle      string
	Value       any
	Description string

	owner *Context
}

// Context is an arena of entities indexed by creation order
type Context struct {
	entities []Entity
	byHandle map[string]int
}

// New creates an empty context
func New() *Context {
	return &Context{byHandle: make(map[string]int)}
}

// NewEntity appends an entity. The handle is the hint when free, otherwise the
// hint with a numeric suffix; an empty hint picks the next free letter.
func (c *Context) NewEntity(hint string, value any, description string) Entity {
	handle := c.freeHandle(strings.TrimSpace(hint))
	return c.add(handle, value, description)
}

// Bind appends an entity under exactly the given handle
func (c *Context) Bind(handle string, value any, description string) (Entity, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return Entity{}, fmt.Errorf("composition: empty handle")
	}
	if _, taken := c.byHandle[handle]; taken {
		return Entity{}, fmt.Errorf("%w: %s", ErrDuplicateHandle, handle)
	}
	return c.add(handle, value, description), nil
}

func (c *Context) add(handle string, value any, description string) Entity {
	e := Entity{
		Index:       len(c.entities),
		Handle:      handle,
		Value:       value,
		Description: description,
		owner:       c,
	}
	c.entities = append(c.entities, e)
	c.byHandle[handle] = e.Index
	return e
}

func (c *Context) freeHandle(hint string) string {
	if hint == "" {
		for ch := 'a'; ch <= 'z'; ch++ {
			if _, taken := c.byHandle[string(ch)]; !taken {
				return string(ch)
			}
		}
		hint = "v"
	}
	if _, taken := c.byHandle[hint]; !taken {
		return hint
	}
	for i := 2; ; i++ {
		candidate := hint + strconv.Itoa(i)
		if _, taken := c.byHandle[candidate]; !taken {
			return candidate
		}
	}
}

// Entity looks up an entity by handle
func (c *Context) Entity(handle string) (Entity, bool) {
	i, ok := c.byHandle[handle]
	if !ok {
		return Entity{}, false
	}
	return c.entities[i], true
}

// Entities returns the entities in creation order
func (c *Context) Entities() []Entity {
	return append([]Entity(nil), c.entities...)
}

// Len returns the number of entities
func (c *Context) Len() int { return len(c.entities) }

// TemplateFor returns the text that stands for the entity inside a question
func (c *Context) TemplateFor(e Entity) string {
	return e.Handle
}

// Describe renders the entity's description with its handle filled in
func (c *Context) Describe(e Entity) string {
	return strings.ReplaceAll(e.Description, SelfPlaceholder, c.TemplateFor(e))
}

// Question fills {name} placeholders in template from args. Entity arguments
// are written as their handle and their descriptions are prepended, in
// creation order. "{{" and "}}" produce literal braces.
func (c *Context) Question(template string, args map[string]any) (string, error) {
	var out strings.Builder
	used := map[int]bool{}

	for i := 0; i < len(template); i++ {
		ch := template[i]
		switch {
		case ch == '{' && i+1 < len(template) && template[i+1] == '{':
			out.WriteByte('{')
			i++
		case ch == '}' && i+1 < len(template) && template[i+1] == '}':
			out.WriteByte('}')
			i++
		case ch == '{':
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed placeholder in %q", ErrMalformedTemplate, template)
			}
			name := template[i+1 : i+end]
			text, err := c.renderArg(name, args, used)
			if err != nil {
				return "", err
			}
			out.WriteString(text)
			i += end
		case ch == '}':
			return "", fmt.Errorf("%w: stray '}' in %q", ErrMalformedTemplate, template)
		default:
			out.WriteByte(ch)
		}
	}

	preamble := c.preamble(used)
	if preamble == "" {
		return out.String(), nil
	}
	return preamble + " " + out.String(), nil
}

func (c *Context) renderArg(name string, args map[string]any, used map[int]bool) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, name)
	}
	if e, isEntity := v.(Entity); isEntity {
		if e.owner != c || e.Index < 0 || e.Index >= len(c.entities) || c.entities[e.Index].Handle != e.Handle {
			return "", fmt.Errorf("%w: %s", ErrForeignEntity, name)
		}
		used[e.Index] = true
		return c.TemplateFor(e), nil
	}
	text, err := display.Render(v)
	if err != nil {
		return "", fmt.Errorf("composition: argument %s: %w", name, err)
	}
	return text, nil
}

func (c *Context) preamble(used map[int]bool) string {
	if len(used) == 0 {
		return ""
	}
	indices := make([]int, 0, len(used))
	for i := range used {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	var parts []string
	for _, i := range indices {
		if d := c.Describe(c.entities[i]); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, " ")
}
