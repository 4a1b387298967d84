package validator

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// pathStack tracks the instance path of the element being validated. Steps
// carry a 1-based position when the element has same-named siblings.
type pathStack struct {
	parts []string
}

func (p *pathStack) push(el *etree.Element) {
	p.parts = append(p.parts, step(el))
}

func (p *pathStack) pop() {
	if len(p.parts) == 0 {
		return
	}
	p.parts = p.parts[:len(p.parts)-1]
}

func (p *pathStack) String() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

func (p *pathStack) attr(name string) string {
	return p.String() + "/@" + name
}

func step(el *etree.Element) string {
	parent := el.Parent()
	if parent == nil {
		return el.Tag
	}
	position, count := 0, 0
	for _, sibling := range parent.ChildElements() {
		if sibling.Tag != el.Tag || sibling.Space != el.Space {
			continue
		}
		count++
		if sibling == el {
			position = count
		}
	}
	if count < 2 {
		return el.Tag
	}
	return el.Tag + "[" + strconv.Itoa(position) + "]"
}
