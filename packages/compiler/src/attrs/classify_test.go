package attrs_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"idomc-go/packages/compiler/src/attrs"
	"idomc-go/packages/compiler/src/render3"
	"idomc-go/packages/compiler/src/scope"
	"idomc-go/packages/compiler/src/sink"
)

type handler struct{ Name string }

func lit(name, value string) *render3.Attribute {
	return render3.NewAttribute(name, render3.AttributeValueLiteral, value, nil, nil, nil)
}

func path(name, value string) *render3.Attribute {
	return render3.NewAttribute(name, render3.AttributeValuePath, value, nil, nil, nil)
}

func flag(name string) *render3.Attribute {
	return render3.NewAttribute(name, render3.AttributeValueBoolean, "", nil, nil, nil)
}

func TestIsEvent(t *testing.T) {
	cases := map[string]bool{
		"onClick": true,
		"onclick": true,
		"ONINPUT": true,
		"on":      true,
		"o":       false,
		"class":   false,
		"one":     true,
		"button":  false,
	}
	for name, want := range cases {
		if got := attrs.IsEvent(name); got != want {
			t.Errorf("IsEvent(%q) = %v, want %v", name, got, want)
		}
	}
	if !attrs.IsSpread("...props") || attrs.IsSpread("props") {
		t.Errorf("IsSpread misclassified")
	}
}

func TestClassify(t *testing.T) {
	click := &handler{Name: "click"}

	t.Run("should merge classes and bind events", func(t *testing.T) {
		ctx := scope.MapOf("handlers", scope.MapOf("click", click))
		res, err := attrs.Classify([]*render3.Attribute{
			lit("class", "a"),
			lit("class", "b"),
			lit("onClick", "handlers.click"),
			flag("disabled"),
		}, ctx, nil)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		want := attrs.Result{
			Static:  []sink.Attr{{Name: "class", Value: "a b"}, {Name: "disabled", Value: true}},
			Dynamic: []sink.Attr{{Name: "onClick", Value: click}},
		}
		if diff := cmp.Diff(want, res); diff != "" {
			t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should resolve unquoted values as paths", func(t *testing.T) {
		ctx := scope.MapOf("user", scope.MapOf("id", "u1", "theme", "dark"))
		res, err := attrs.Classify([]*render3.Attribute{
			path("id", "user.id"),
			path("class", "user.theme"),
			lit("title", "user.id"),
			path("lang", "user.lang"),
		}, ctx, nil)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		want := []sink.Attr{
			{Name: "id", Value: "u1"},
			{Name: "class", Value: "dark"},
			{Name: "title", Value: "user.id"},
			{Name: "lang", Value: nil},
		}
		if diff := cmp.Diff(want, res.Static); diff != "" {
			t.Errorf("Classify() static mismatch (-want +got):\n%s", diff)
		}
		if res.Dynamic != nil {
			t.Errorf("Classify() dynamic = %v, want nil", res.Dynamic)
		}
	})

	t.Run("should bind missing handlers as nil", func(t *testing.T) {
		res, err := attrs.Classify([]*render3.Attribute{lit("onInput", "nope.handler"), flag("onBlur")}, scope.NewMap(), nil)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		want := []sink.Attr{{Name: "onInput", Value: nil}, {Name: "onBlur", Value: nil}}
		if diff := cmp.Diff(want, res.Dynamic); diff != "" {
			t.Errorf("Classify() dynamic mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should flatten spreads in place", func(t *testing.T) {
		ctx := scope.MapOf("props", scope.MapOf("type", "text", "class", "wide", "name", "q"))
		res, err := attrs.Classify([]*render3.Attribute{
			lit("class", "field"),
			flag("...props"),
			lit("placeholder", "Search"),
		}, ctx, nil)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		want := []sink.Attr{
			{Name: "class", Value: "field wide"},
			{Name: "type", Value: "text"},
			{Name: "name", Value: "q"},
			{Name: "placeholder", Value: "Search"},
		}
		if diff := cmp.Diff(want, res.Static); diff != "" {
			t.Errorf("Classify() static mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should let later declarations override values at the first position", func(t *testing.T) {
		ctx := scope.MapOf("props", scope.MapOf("type", "email", "id", "x"))
		res, err := attrs.Classify([]*render3.Attribute{
			lit("type", "text"),
			flag("...props"),
			lit("id", "y"),
		}, ctx, nil)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		want := []sink.Attr{{Name: "type", Value: "email"}, {Name: "id", Value: "y"}}
		if diff := cmp.Diff(want, res.Static); diff != "" {
			t.Errorf("Classify() static mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should ignore spreads that are not mappings", func(t *testing.T) {
		ctx := scope.MapOf("list", []interface{}{"a"})
		res, err := attrs.Classify([]*render3.Attribute{flag("...list"), flag("...missing")}, ctx, nil)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if diff := cmp.Diff(attrs.Result{}, res); diff != "" {
			t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should skip empty class fragments", func(t *testing.T) {
		res, err := attrs.Classify([]*render3.Attribute{
			lit("class", ""),
			path("class", "missing"),
			lit("class", "b"),
		}, scope.NewMap(), nil)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		want := []sink.Attr{{Name: "class", Value: "b"}}
		if diff := cmp.Diff(want, res.Static); diff != "" {
			t.Errorf("Classify() static mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should lift the key attribute", func(t *testing.T) {
		ctx := scope.MapOf("item", scope.MapOf("id", 7))
		res, err := attrs.Classify([]*render3.Attribute{
			path("key", "item.id"),
			lit("class", "row"),
		}, ctx, &attrs.Options{KeyAttribute: "key"})
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		want := attrs.Result{
			Static: []sink.Attr{{Name: "class", Value: "row"}},
			Key:    "7",
		}
		if diff := cmp.Diff(want, res); diff != "" {
			t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should keep the key attribute when keys are disabled", func(t *testing.T) {
		res, err := attrs.Classify([]*render3.Attribute{lit("key", "k")}, nil, nil)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		want := attrs.Result{Static: []sink.Attr{{Name: "key", Value: "k"}}}
		if diff := cmp.Diff(want, res); diff != "" {
			t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name string
		attr *render3.Attribute
	}{
		{"bad path", path("id", "a..b")},
		{"bad event path", lit("onClick", "do it")},
		{"empty spread", flag("...")},
		{"spread with value", lit("...props", "x")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := attrs.Compile([]*render3.Attribute{tc.attr}, nil); err == nil {
				t.Errorf("Compile() expected an error")
			}
		})
	}
}

func TestPlan(t *testing.T) {
	plan, err := attrs.Compile([]*render3.Attribute{
		path("key", "item.id"),
		lit("class", "a"),
		path("title", "item.title"),
		flag("hidden"),
		lit("onClick", "handlers.click"),
		flag("...item.extra"),
	}, &attrs.Options{KeyAttribute: "key"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := plan.Len(); got != 6 {
		t.Errorf("Plan.Len() = %d, want 6", got)
	}
	want := `key:key={item.id} class="a" title={item.title} hidden onClick={handlers.click} ...item.extra`
	if diff := cmp.Diff(want, plan.String()); diff != "" {
		t.Errorf("Plan.String() mismatch (-want +got):\n%s", diff)
	}

	t.Run("should re-resolve on every evaluation", func(t *testing.T) {
		extra := scope.MapOf("role", "row")
		item := scope.MapOf("id", "1", "title", "first", "extra", extra)
		ctx := scope.MapOf("item", item)

		first := plan.Evaluate(ctx)
		item.Set("title", "second")
		extra.Set("role", "cell")
		second := plan.Evaluate(ctx)

		if diff := cmp.Diff(sink.Attr{Name: "title", Value: "first"}, first.Static[1]); diff != "" {
			t.Errorf("first Evaluate() mismatch (-want +got):\n%s", diff)
		}
		want := []sink.Attr{
			{Name: "class", Value: "a"},
			{Name: "title", Value: "second"},
			{Name: "hidden", Value: true},
			{Name: "role", Value: "cell"},
		}
		if diff := cmp.Diff(want, second.Static); diff != "" {
			t.Errorf("second Evaluate() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should be deterministic", func(t *testing.T) {
		ctx := scope.MapOf("item", scope.MapOf("extra", map[string]interface{}{"b": 2, "a": 1, "c": 3}))
		a, b := plan.Evaluate(ctx), plan.Evaluate(ctx)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("Evaluate() not deterministic (-first +second):\n%s", diff)
		}
		names := []string{}
		for _, attr := range a.Static {
			names = append(names, attr.Name)
		}
		if diff := cmp.Diff([]string{"class", "title", "hidden", "a", "b", "c"}, names); diff != "" {
			t.Errorf("Evaluate() order mismatch (-want +got):\n%s", diff)
		}
	})
}
