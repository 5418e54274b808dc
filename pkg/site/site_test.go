package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Metadata(t *testing.T) {
	d := Default()

	assert.Equal(t, SiteMeta{
		Title:       "Styx",
		Description: "Just playing around",
		Favicon:     "../favicon.ico",
	}, d.Meta())
	assert.Equal(t, 3, d.ThemeConfig.SidebarDepth)
}

func TestDefault_NavOrder(t *testing.T) {
	nav := Default().ThemeConfig.Nav

	require.Len(t, nav, 4)
	assert.Equal(t, "Home", nav[0].Text)
	assert.Equal(t, "/", nav[0].Link)

	var labels []string
	for _, item := range nav {
		labels = append(labels, item.Text)
	}
	assert.Equal(t, []string{"Home", "Blog", "Projects", "Github"}, labels)

	blog := nav[1]
	require.Len(t, blog.Items, 4)
	assert.Equal(t, "Koa", blog.Items[0].Text)
	assert.Equal(t, "/blog/JavaScript/", blog.Items[3].Link)
}

func TestDefault_SidebarOrder(t *testing.T) {
	sb := Default().ThemeConfig.Sidebar

	assert.Equal(t, []string{
		"/blog/JavaScript/",
		"/blog/Koa/",
		"/blog/Node/",
		"/blog/FontEnd_Construction/",
		"/blog/Projects/",
	}, sb.Prefixes())

	js, ok := sb.Section("/blog/JavaScript/")
	require.True(t, ok)
	assert.Equal(t, []string{"", "let_const", "destruction"}, js.Pages[:3])
	assert.Equal(t, "promise_basic", js.Pages[len(js.Pages)-1])

	fe, ok := sb.Section("/blog/FontEnd_Construction/")
	require.True(t, ok)
	assert.Contains(t, fe.Pages, "hotMiddleware")
}

func TestDefault_NoDuplicatePages(t *testing.T) {
	for _, sec := range Default().ThemeConfig.Sidebar {
		seen := make(map[string]bool)
		for _, id := range sec.Pages {
			assert.False(t, seen[id], "section %s lists %q twice", sec.Prefix, id)
			seen[id] = true
		}
	}
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Title = "changed"
	a.ThemeConfig.Nav[0].Text = "changed"
	a.ThemeConfig.Nav[1].Items[0].Link = "/changed/"
	a.ThemeConfig.Sidebar[0].Pages[1] = "changed"
	a.ThemeConfig.Head[0].Attrs["href"] = "changed"

	b := Default()
	assert.Equal(t, "Styx", b.Title)
	assert.Equal(t, "Home", b.ThemeConfig.Nav[0].Text)
	assert.Equal(t, "/blog/Koa/", b.ThemeConfig.Nav[1].Items[0].Link)
	assert.Equal(t, "let_const", b.ThemeConfig.Sidebar[0].Pages[1])
	assert.Equal(t, "../favicon.ico", b.Favicon())
}

func TestFavicon(t *testing.T) {
	tests := []struct {
		name string
		head []HeadTag
		want string
	}{
		{name: "no head", head: nil, want: ""},
		{
			name: "icon rel",
			head: []HeadTag{{Tag: "link", Attrs: map[string]string{"rel": "icon", "href": "/f.png"}}},
			want: "/f.png",
		},
		{
			name: "stylesheet is skipped",
			head: []HeadTag{
				{Tag: "link", Attrs: map[string]string{"rel": "stylesheet", "href": "/s.css"}},
				{Tag: "link", Attrs: map[string]string{"rel": "shortcut icon", "href": "/f.ico"}},
			},
			want: "/f.ico",
		},
		{
			name: "meta tags ignored",
			head: []HeadTag{{Tag: "meta", Attrs: map[string]string{"rel": "icon", "href": "/x"}}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Descriptor{ThemeConfig: ThemeConfig{Head: tt.head}}
			assert.Equal(t, tt.want, d.Favicon())
		})
	}
}

func TestNavItem_IsExternal(t *testing.T) {
	tests := []struct {
		link string
		want bool
	}{
		{"/", false},
		{"/blog/Koa/", false},
		{"https://github.com/Styx11", true},
		{"mailto:someone@example.com", true},
		{"", false},
		{"//cdn.example.com/x.js", false},
		{"./c:foo", false},
		{"c:foo", true},
		{"/blog/%zz", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NavItem{Link: tt.link}.IsExternal(), tt.link)
	}
}

func TestNavItem_Walk(t *testing.T) {
	blog := Default().ThemeConfig.Nav[1]

	var visited []string
	var depths []int
	blog.Walk(func(item NavItem, depth int) {
		visited = append(visited, item.Text)
		depths = append(depths, depth)
	})

	assert.Equal(t, []string{"Blog", "Koa", "Node", "前端构建", "JavaScipt"}, visited)
	assert.Equal(t, []int{0, 1, 1, 1, 1}, depths)
}
