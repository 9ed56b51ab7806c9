package parser

import (
	"errors"
	"sort"
	"testing"

	"github.com/AleksandrPea/spiderkit/internal/model"
)

// TestHTMLParser tests link extraction from markup.
func TestHTMLParser(t *testing.T) {
	t.Parallel()

	t.Run("fails on a nil resource", func(t *testing.T) {
		t.Parallel()

		p := NewHTMLParser()
		if _, err := p.CanParse(nil, "/", false); !errors.Is(err, ErrNilResource) {
			t.Errorf("CanParse error = %v, want ErrNilResource", err)
		}
		if _, err := p.Parse(nil, "", 0); !errors.Is(err, ErrNilResource) {
			t.Errorf("Parse error = %v, want ErrNilResource", err)
		}
	})

	t.Run("claims only text/html", func(t *testing.T) {
		t.Parallel()

		p := NewHTMLParser()
		htmlRes := model.NewResource("http://example.com/", "text/html; charset=UTF-8", nil)
		textRes := model.NewResource("http://example.com/", "text/plain", nil)

		if ok, _ := p.CanParse(htmlRes, "/", false); !ok {
			t.Error("text/html must be eligible")
		}
		if ok, _ := p.CanParse(textRes, "/", false); ok {
			t.Error("text/plain must not be eligible")
		}
		if ok, _ := p.CanParse(htmlRes, "/", true); ok {
			t.Error("claimed resource must not be parsed again")
		}
	})

	t.Run("extracts and resolves links", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body>
			<a href="/relative">rel</a>
			<a href="http://other.example.org/abs">abs</a>
			<a href="javascript:void(0)">js</a>
			<a href="mailto:x@example.com">mail</a>
			<script src="app.js"></script>
			<img src="/logo.png">
			<form action="/search"></form>
		</body></html>`

		p := NewHTMLParser()
		var urls []string
		p.AddListener(collect(&urls))

		res := model.NewResource("http://example.com/dir/page.html", "text/html", []byte(doc))
		complete, err := p.Parse(res, doc, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !complete {
			t.Error("structural parser must claim markup")
		}

		want := []string{
			"http://example.com/dir/app.js",
			"http://example.com/logo.png",
			"http://example.com/relative",
			"http://example.com/search",
			"http://other.example.org/abs",
		}
		sort.Strings(urls)
		if len(urls) != len(want) {
			t.Fatalf("found %d links, want %d: %v", len(urls), len(want), urls)
		}
		for i := range want {
			if urls[i] != want[i] {
				t.Errorf("link[%d] = %q, want %q", i, urls[i], want[i])
			}
		}
	})
}

// TestChain tests first-claim-wins dispatch.
func TestChain(t *testing.T) {
	t.Parallel()

	newChain := func() (*Chain, *[]string) {
		htmlParser := NewHTMLParser()
		textParser := NewTextParser()
		var urls []string
		htmlParser.AddListener(collect(&urls))
		textParser.AddListener(collect(&urls))
		return NewChain([]Parser{htmlParser, textParser}), &urls
	}

	t.Run("fails on a nil resource", func(t *testing.T) {
		t.Parallel()

		chain, _ := newChain()
		if _, err := chain.Process(nil, "/", 0); !errors.Is(err, ErrNilResource) {
			t.Errorf("error = %v, want ErrNilResource", err)
		}
	})

	t.Run("markup is claimed and never reaches the text scanner", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body><a href="/x">see http://inline.example.com/in-text</a></body></html>`
		res := model.NewResource("http://example.com/", "text/html", []byte(doc))

		chain, urls := newChain()
		claimed, err := chain.Process(res, "/", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !claimed {
			t.Error("markup must be claimed by the structural parser")
		}
		// Only the href is reported; the URL inside the anchor text is not,
		// because the text scanner declined the claimed resource.
		if len(*urls) != 1 || (*urls)[0] != "http://example.com/x" {
			t.Errorf("got %v, want only the href link", *urls)
		}
	})

	t.Run("plain text is scanned but never claimed", func(t *testing.T) {
		t.Parallel()

		res := model.NewResource("http://example.com/readme", "text/plain",
			[]byte("docs at https://docs.example.com/guide"))

		chain, urls := newChain()
		claimed, err := chain.Process(res, "/readme", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if claimed {
			t.Error("text scan must leave the resource unclaimed for later parsers")
		}
		if len(*urls) != 1 || (*urls)[0] != "https://docs.example.com/guide" {
			t.Errorf("got %v", *urls)
		}
	})

	t.Run("non-text resources pass through untouched", func(t *testing.T) {
		t.Parallel()

		res := model.NewResource("http://example.com/blob", "application/octet-stream",
			[]byte("http://hidden.example.com/"))

		chain, urls := newChain()
		claimed, err := chain.Process(res, "", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if claimed {
			t.Error("no parser should claim an opaque binary")
		}
		if len(*urls) != 0 {
			t.Errorf("got %v, want no URLs", *urls)
		}
	})
}
