// Package site defines the navigation descriptor of the Styx blog.
//
// A Descriptor carries the site title and description, the <head>
// declarations, the top navigation bar and one ordered sidebar per URL
// prefix. It is the configuration object handed to the static-site
// generator; the generator owns rendering, routing and markdown compilation.
//
// Descriptors are values: build one (or take Default), then only read it.
// Order matters everywhere (nav items, sidebar sections, pages) and every
// codec in this package preserves it.
package site

import (
	"net/url"
	"strings"
)

// Descriptor is the complete site navigation configuration.
type Descriptor struct {
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	ThemeConfig ThemeConfig `json:"themeConfig" yaml:"themeConfig"`
}

// ThemeConfig holds the theme-facing part of the descriptor.
type ThemeConfig struct {
	Head         []HeadTag `json:"head,omitempty" yaml:"head,omitempty"`
	Nav          []NavItem `json:"nav" yaml:"nav"`
	SidebarDepth int       `json:"sidebarDepth" yaml:"sidebarDepth"`
	Sidebar      Sidebar   `json:"sidebar" yaml:"sidebar"`
}

// SiteMeta is the flat summary of a descriptor used in page headers.
type SiteMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Favicon     string `json:"favicon,omitempty"`
}

// HeadTag is a single element injected into every page's <head>.
// It serializes as the pair [tag, {attr: value}].
type HeadTag struct {
	Tag   string
	Attrs map[string]string
}

// NavItem is one entry of the top navigation bar. Items with sub-items
// render as a dropdown.
type NavItem struct {
	Text  string    `json:"text" yaml:"text"`
	Link  string    `json:"link,omitempty" yaml:"link,omitempty"`
	Items []NavItem `json:"items,omitempty" yaml:"items,omitempty"`
}

// IsExternal reports whether the item points outside the site, that is
// whether its link carries a URL scheme.
func (n NavItem) IsExternal() bool {
	u, err := url.Parse(n.Link)
	return err == nil && u.Scheme != ""
}

// Walk visits n and its sub-items depth-first. The depth of n is 0.
func (n NavItem) Walk(fn func(item NavItem, depth int)) {
	n.walk(fn, 0)
}

func (n NavItem) walk(fn func(NavItem, int), depth int) {
	fn(n, depth)
	for _, child := range n.Items {
		child.walk(fn, depth+1)
	}
}

// Meta returns the site metadata.
func (d *Descriptor) Meta() SiteMeta {
	return SiteMeta{
		Title:       d.Title,
		Description: d.Description,
		Favicon:     d.Favicon(),
	}
}

// Favicon returns the href of the first link tag whose rel names an icon,
// or "" when the head declares none.
func (d *Descriptor) Favicon() string {
	for _, h := range d.ThemeConfig.Head {
		if h.Tag != "link" {
			continue
		}
		for _, rel := range strings.Fields(h.Attrs["rel"]) {
			if strings.EqualFold(rel, "icon") {
				return h.Attrs["href"]
			}
		}
	}
	return ""
}

// Clone returns a deep copy of d.
func (d *Descriptor) Clone() *Descriptor {
	out := &Descriptor{
		Title:       d.Title,
		Description: d.Description,
		ThemeConfig: ThemeConfig{
			SidebarDepth: d.ThemeConfig.SidebarDepth,
		},
	}
	if d.ThemeConfig.Head != nil {
		out.ThemeConfig.Head = make([]HeadTag, len(d.ThemeConfig.Head))
		for i, h := range d.ThemeConfig.Head {
			out.ThemeConfig.Head[i] = h.clone()
		}
	}
	out.ThemeConfig.Nav = cloneNav(d.ThemeConfig.Nav)
	out.ThemeConfig.Sidebar = d.ThemeConfig.Sidebar.clone()
	return out
}

func (h HeadTag) clone() HeadTag {
	out := HeadTag{Tag: h.Tag}
	if h.Attrs != nil {
		out.Attrs = make(map[string]string, len(h.Attrs))
		for k, v := range h.Attrs {
			out.Attrs[k] = v
		}
	}
	return out
}

func cloneNav(items []NavItem) []NavItem {
	if items == nil {
		return nil
	}
	out := make([]NavItem, len(items))
	for i, item := range items {
		out[i] = NavItem{
			Text:  item.Text,
			Link:  item.Link,
			Items: cloneNav(item.Items),
		}
	}
	return out
}
