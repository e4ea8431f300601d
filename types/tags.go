package types

import "strings"

/*
A Tag labels a group of mesh entities, like the patches of an analytic shape or the feature curves joining
them. Tags follow a base-label convention: "cap-top" has base "cap" and label "top", so related groups can be
recognized by their base while staying distinct
*/
type Tag string

func NewTag(name string) Tag {
	return Tag(strings.ToLower(strings.TrimSpace(name)))
}

func (t Tag) GetBase() string {
	if ind := strings.Index(string(t), "-"); ind >= 0 {
		return string(t)[:ind]
	}
	return string(t)
}

func (t Tag) GetLabel() (label string) {
	if ind := strings.Index(string(t), "-"); ind >= 0 {
		label = string(t)[ind+1:]
	}
	return
}

// TagGroupMap collects directed edge groups under their tags, one group per feature curve section of a mesh file
type TagGroupMap map[Tag]Curve

func (tgm TagGroupMap) AddEdges(tag Tag, edges []EdgeInt) {
	tgm[tag] = append(tgm[tag], edges...)
}
