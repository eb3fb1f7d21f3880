// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package extensions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feel-co/ndg/pkg/api"
)

func TestRoleCommand(t *testing.T) {
	out := Preprocess([]byte("run {command}`rm -rf /tmp`"), nil, nil)
	assert.Contains(t, string(out), `<code class="command">rm -rf /tmp</code>`)
}

func TestOptionRoleWithAngleBrackets(t *testing.T) {
	out := Preprocess([]byte("{option}`hjem.users.<name>.enable`"), nil, nil)
	s := string(out)
	assert.Contains(t, s, `href="options.html#option-hjem-users-<name>-enable"`)
	assert.Contains(t, s, `hjem.users.&lt;name&gt;.enable`)
}

func TestBareOptionHeuristic(t *testing.T) {
	valid := map[string]struct{}{"services.nginx.enable": {}}
	out := Preprocess([]byte("set `services.nginx.enable` to true"), valid, nil)
	assert.Contains(t, string(out), `href="options.html#option-services-nginx-enable"`)
}

func TestBareOptionHeuristicRequiresValidSet(t *testing.T) {
	out := Preprocess([]byte("set `services.nginx.enable` to true"), map[string]struct{}{}, nil)
	assert.Contains(t, string(out), "`services.nginx.enable`")
}

func TestPromptRewriting(t *testing.T) {
	out := Preprocess([]byte("`$ echo hi`"), nil, nil)
	assert.Equal(t, `<code class="terminal"><span class="prompt">$</span> echo hi</code>`, string(out))
}

func TestEscapedPromptLeftAlone(t *testing.T) {
	out := Preprocess([]byte("`$$ foo`"), nil, nil)
	assert.Equal(t, "`$$ foo`", string(out))
}

func TestNixReplRewriting(t *testing.T) {
	out := Preprocess([]byte("`nix-repl> 1 + 1`"), nil, nil)
	assert.Equal(t, `<code class="nix-repl"><span class="prompt">nix-repl&gt;</span> 1 + 1</code>`, string(out))
}

func TestManpageRoleFallsBackToBareConf(t *testing.T) {
	urls := api.ManpageURLMap{"nix.conf(5)": "https://example.com/nix.conf.5.html"}
	out := Preprocess([]byte("{manpage}`conf(5)`"), nil, urls)
	assert.Contains(t, string(out), `href="https://example.com/nix.conf.5.html"`)
}

func TestManpageRoleUnknownBecomesSpan(t *testing.T) {
	out := Preprocess([]byte("{manpage}`foo(1)`"), nil, nil)
	assert.Contains(t, string(out), `<span class="manpage-reference">foo(1)</span>`)
}

func TestAdmonitionBasic(t *testing.T) {
	out := Preprocess([]byte("::: {.note}\nhello\n:::\n"), nil, nil)
	s := string(out)
	assert.Contains(t, s, `<div class="admonition note">`)
	assert.Contains(t, s, `<p class="admonition-title">Note</p>`)
	assert.Contains(t, s, "</div>")
}

func TestAdmonitionWithID(t *testing.T) {
	out := Preprocess([]byte("::: {.warning #my-id}\nhello\n:::\n"), nil, nil)
	assert.Contains(t, string(out), `id="my-id"`)
}

func TestAdmonitionNesting(t *testing.T) {
	out := Preprocess([]byte("::: {.note}\nouter\n::: {.tip}\ninner\n:::\n:::\n"), nil, nil)
	assert.Equal(t, 2, strings.Count(string(out), "</div>"))
}

func TestAdmonitionUnknownKind(t *testing.T) {
	out := Preprocess([]byte("::: {.spoiler}\nhi\n:::\n"), nil, nil)
	s := string(out)
	assert.Contains(t, s, `class="admonition spoiler"`)
	assert.Contains(t, s, `<p class="admonition-title">Spoiler</p>`)
}

func TestAdmonitionSkipsFencedCode(t *testing.T) {
	out := Preprocess([]byte("```\n::: {.note}\n```\n"), nil, nil)
	assert.NotContains(t, string(out), "<div")
}

func TestInlineAnchor(t *testing.T) {
	out := Preprocess([]byte("text []{#my-anchor} more"), nil, nil)
	assert.Contains(t, string(out), `<span id="my-anchor" class="nixos-anchor"></span>`)
}

func TestPostprocessEmptyLinkHumanization(t *testing.T) {
	out := Postprocess([]byte(`<a href="#sec-getting-started"></a>`))
	assert.Equal(t, `<a href="#sec-getting-started">Getting Started</a>`, string(out))
}

func TestPostprocessOptEmptyLinkRewritesHref(t *testing.T) {
	out := Postprocess([]byte(`<a href="#opt-services-nginx-enable"></a>`))
	assert.Equal(t, `<a href="options.html#opt-services-nginx-enable">services.nginx.enable</a>`, string(out))
}

func TestPostprocessLeavesNonEmptyLinksAlone(t *testing.T) {
	out := Postprocess([]byte(`<a href="#sec-getting-started">Already Set</a>`))
	assert.Equal(t, `<a href="#sec-getting-started">Already Set</a>`, string(out))
}

func TestPostprocessCollapsesDuplicateParagraphs(t *testing.T) {
	out := Postprocess([]byte(`<p><p>hello</p></p>`))
	assert.Equal(t, `<p>hello</p>`, string(out))
}

func TestPostprocessStripsStrayAnchorText(t *testing.T) {
	out := Postprocess([]byte(`<p>text []{#leftover} more</p>`))
	assert.Equal(t, `<p>text  more</p>`, string(out))
}

func TestPostprocessOpaqueInsideCode(t *testing.T) {
	out := Postprocess([]byte(`<pre><code>&lt;p&gt;&lt;p&gt;</code></pre>`))
	assert.Equal(t, `<pre><code>&lt;p&gt;&lt;p&gt;</code></pre>`, string(out))
}
