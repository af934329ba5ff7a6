package scraper

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
	"github.com/titanous/json5"
)

const preloadedStateMarker = "window.__PRELOADED_STATE__"

var preloadedStateRe = regexp.MustCompile(`(?s)window\.__PRELOADED_STATE__\s*=\s*(\{.*?\});`)

// ExtractPreloadedState pulls the hydration blob a server-rendered page
// embeds as `window.__PRELOADED_STATE__ = {...};`. Three strategies, each
// tried only if the previous one fails to produce parseable JSON:
//
//  1. non-greedy regex match — fast, but breaks on any state value that
//     contains a literal "};" inside a string
//  2. brace-balanced scan that treats string literals as opaque — the
//     authoritative extractor
//  3. evaluation of the enclosing <script> body in a sandboxed JS runtime
//     exposing nothing but a bare `window` object
//
// Returns nil (never panics) when no strategy yields a state object; a
// missing state block on one page must not abort the run.
func ExtractPreloadedState(html string) map[string]any {
	if m := preloadedStateRe.FindStringSubmatch(html); m != nil {
		if state, ok := parseJSONish(m[1]); ok {
			return state
		}
	}

	if literal, ok := ExtractJSONObjectLiteral(html, preloadedStateMarker); ok {
		if state, ok := parseJSONish(literal); ok {
			return state
		}
	}

	if state := evalPreloadedState(html); state != nil {
		return state
	}

	log.Printf("[extract] no parseable %s block", preloadedStateMarker)
	return nil
}

// ExtractJSONObjectLiteral finds the first "{" after marker and returns the
// substring through its matching closing brace. The scan tracks brace depth
// while treating ", ' and ` delimited string contents (with backslash
// escapes) as opaque, so braces inside string values do not break the depth
// count. An empty marker scans from the start of the text.
func ExtractJSONObjectLiteral(text, marker string) (string, bool) {
	start := 0
	if marker != "" {
		idx := strings.Index(text, marker)
		if idx < 0 {
			return "", false
		}
		start = idx + len(marker)
	}

	open := strings.IndexByte(text[start:], '{')
	if open < 0 {
		return "", false
	}
	open += start

	depth := 0
	var quote byte
	for i := open; i < len(text); i++ {
		c := text[i]

		if quote != 0 {
			switch c {
			case '\\':
				i++ // skip the escaped character
			case quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[open : i+1], true
			}
		}
	}
	return "", false
}

// ExtractBamcoBlock extracts `Bamco.<key> = {...};` from a Bon Appétit page
// and parses it. Absent blocks return nil, not an error.
func ExtractBamcoBlock(html, key string) map[string]any {
	marker := "Bamco." + key
	idx := strings.Index(html, marker)
	if idx < 0 {
		return nil
	}
	tail := html[idx+len(marker):]
	eq := strings.Index(tail, "=")
	if eq < 0 {
		return nil
	}

	literal, ok := ExtractJSONObjectLiteral(tail[eq:], "")
	if !ok {
		return nil
	}
	obj, ok := parseJSONish(literal)
	if !ok {
		log.Printf("[extract] Bamco.%s block did not parse", key)
		return nil
	}
	return obj
}

// parseJSONish parses strict JSON first, then falls back to JSON5 for JS
// object literals (single quotes, unquoted keys, trailing commas).
func parseJSONish(s string) (map[string]any, bool) {
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out, true
	}
	out = nil
	if err := json5.Unmarshal([]byte(s), &out); err == nil && out != nil {
		return out, true
	}
	return nil, false
}

// evalPreloadedState is the last-resort extractor: run the <script> that
// assigns the state inside a goja runtime with zero ambient capabilities
// (no require, no fetch, no filesystem symbols — just a bare `window`), then
// read the state back out through JSON.stringify. The runtime is interrupted
// after two seconds in case the fetched script loops.
func evalPreloadedState(html string) map[string]any {
	script := findStateScript(html)
	if script == "" {
		return nil
	}

	vm := goja.New()
	timer := time.AfterFunc(2*time.Second, func() { vm.Interrupt("script timeout") })
	defer timer.Stop()

	if _, err := vm.RunString("var window = {};"); err != nil {
		return nil
	}
	if _, err := vm.RunString(script); err != nil {
		// the assignment may still have run before the script errored
		log.Printf("[extract] sandboxed eval: %v", err)
	}

	v, err := vm.RunString("JSON.stringify(window.__PRELOADED_STATE__)")
	if err != nil {
		return nil
	}
	encoded, ok := v.Export().(string)
	if !ok || encoded == "" {
		return nil
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(encoded), &out); err != nil {
		return nil
	}
	return out
}

func findStateScript(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	var script string
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		body := sel.Text()
		if strings.Contains(body, preloadedStateMarker) {
			script = body
			return false
		}
		return true
	})
	return script
}
