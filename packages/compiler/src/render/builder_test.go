package render_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"idomc-go/packages/compiler"
	"idomc-go/packages/compiler/src/render"
	"idomc-go/packages/compiler/src/scope"
	"idomc-go/packages/compiler/src/sink"
)

func TestBuilder(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		ctx      interface{}
		expected string
	}{
		{
			name:     "nested elements with text",
			source:   `<div><span>Hello {{ name }}</span></div>`,
			ctx:      scope.MapOf("name", "World"),
			expected: `<div><span>Hello World</span></div>`,
		},
		{
			name:     "escaped text and attributes",
			source:   `<a href=link title="a">{{ label }}</a>`,
			ctx:      scope.MapOf("link", `/q?a=1&b="2"`, "label", "<b>"),
			expected: `<a href="/q?a=1&amp;b=&#34;2&#34;" title="a">&lt;b&gt;</a>`,
		},
		{
			name:     "void elements and boolean attributes",
			source:   `<input type="checkbox" checked disabled=off><br>`,
			ctx:      scope.MapOf("off", false),
			expected: `<input type="checkbox" checked><br>`,
		},
		{
			name:     "missing attribute values are omitted",
			source:   `<p title=nope>x</p>`,
			ctx:      scope.NewMap(),
			expected: `<p>x</p>`,
		},
		{
			name:     "handlers are not serialized",
			source:   `<button onClick=click>Go</button>`,
			ctx:      scope.MapOf("click", func() {}),
			expected: `<button>Go</button>`,
		},
		{
			name:     "control flow",
			source:   `<ul>@for (n of nums) {<li>{{ n }}</li>}</ul>@if (empty) {none} @else {some}`,
			ctx:      scope.MapOf("nums", []int{1, 2}, "empty", false),
			expected: `<ul><li>1</li><li>2</li></ul>some`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &render.Builder{}
			compiler.MustCompile(tt.source, nil).Invoke(tt.ctx, b)

			var out strings.Builder
			if err := b.Render(&out); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if diff := cmp.Diff(tt.expected, out.String()); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuilder_Keys(t *testing.T) {
	program := compiler.MustCompile(`@for (item of items) {<li key=item.id>{{ item.name }}</li>}`, &compiler.Options{KeyAttribute: "key"})
	ctx := scope.MapOf("items", []interface{}{
		scope.MapOf("id", 7, "name", "a"),
		scope.MapOf("id", 9, "name", "b"),
	})

	t.Run("should drop keys by default", func(t *testing.T) {
		b := &render.Builder{}
		program.Invoke(ctx, b)
		if diff := cmp.Diff(`<li>a</li><li>b</li>`, b.String()); diff != "" {
			t.Errorf("String() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should write keys into KeyAttribute", func(t *testing.T) {
		b := &render.Builder{KeyAttribute: "data-key"}
		program.Invoke(ctx, b)
		if diff := cmp.Diff(`<li data-key="7">a</li><li data-key="9">b</li>`, b.String()); diff != "" {
			t.Errorf("String() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestBuilder_Unbalanced(t *testing.T) {
	b := &render.Builder{}
	b.OpenElement("div", "", []sink.Attr{{Name: "id", Value: "x"}}, nil)
	if err := b.Err(); !errors.Is(err, render.ErrUnbalanced) {
		t.Errorf("Err() = %v, want ErrUnbalanced", err)
	}
	if got := b.String(); got != "" {
		t.Errorf("String() = %q for unbalanced stream", got)
	}

	b.Reset()
	b.OpenElement("div", "", nil, nil)
	b.CloseElement("span")
	if err := b.Err(); !errors.Is(err, render.ErrUnbalanced) {
		t.Errorf("Err() = %v after mismatched close, want ErrUnbalanced", err)
	}

	b.Reset()
	b.Text("ok")
	if diff := cmp.Diff("ok", b.String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
}
