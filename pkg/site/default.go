package site

// styx is the blog's descriptor as authored. It is built once and never
// handed out directly.
var styx = &Descriptor{
	Title:       "Styx",
	Description: "Just playing around",
	ThemeConfig: ThemeConfig{
		Head: []HeadTag{
			{Tag: "link", Attrs: map[string]string{"rel": "shortcut icon", "href": "../favicon.ico"}},
		},
		Nav: []NavItem{
			{Text: "Home", Link: "/"},
			{
				Text: "Blog",
				Link: "/blog/FontEnd_Construction/ssr_first_part",
				Items: []NavItem{
					{Text: "Koa", Link: "/blog/Koa/"},
					{Text: "Node", Link: "/blog/Node/"},
					{Text: "前端构建", Link: "/blog/FontEnd_Construction/"},
					{Text: "JavaScipt", Link: "/blog/JavaScript/"},
				},
			},
			{Text: "Projects", Link: "/blog/Projects/"},
			{Text: "Github", Link: "https://github.com/Styx11"},
		},
		SidebarDepth: 3,
		Sidebar: Sidebar{
			{Prefix: "/blog/JavaScript/", Pages: []string{
				"",
				"let_const",
				"destruction",
				"es6_string",
				"array_expand",
				"func_expand",
				"obj_expand",
				"obj_expand_api",
				"es6_class_basic",
				"es6_class_extend",
				"promise_basic",
			}},
			{Prefix: "/blog/Koa/", Pages: []string{
				"",
				"koa_second_part",
			}},
			{Prefix: "/blog/Node/", Pages: []string{
				"",
				"zlib",
			}},
			{Prefix: "/blog/FontEnd_Construction/", Pages: []string{
				"",
				"use_eslint",
				"module_basic",
				"ssr_first_part",
				"ssr_second_part",
				"ssr_third_part",
				"devMiddleware",
				"hotMiddleware",
			}},
			{Prefix: "/blog/Projects/", Pages: []string{
				"",
				"one",
			}},
		},
	},
}

// Default returns a copy of the Styx blog descriptor.
func Default() *Descriptor {
	return styx.Clone()
}
