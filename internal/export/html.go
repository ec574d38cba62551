/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"spookybuilder/internal/domain"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Name}}</title>
    <style>
{{.Styles}}
/* Component-specific positioning */
{{range .Rules}}{{.}}
{{end}}    </style>
</head>
<body class="spooky-theme">
    <div class="spooky-container">
{{range .Fragments}}        {{.}}
{{end}}    </div>

    <script>
document.addEventListener("DOMContentLoaded", function() {
    console.log("👻 " + {{.Name}} + " loaded successfully!");
    initializeSpookyEffects();
    initializeComponentInteractions();
});
{{.Effects}}
function initializeComponentInteractions() {
{{range .Scripts}}    {{.}}
{{end}}}
    </script>
</body>
</html>
`))

type pageData struct {
	Name      string
	Styles    template.CSS
	Rules     []template.CSS
	Fragments []template.HTML
	Effects   template.JS
	Scripts   []template.JS
}

// HTML writes a standalone page for doc with one fragment, one positioning
// rule and an optional interaction snippet per item, in the given order.
func HTML(w io.Writer, doc domain.Document, items []Item) error {
	if err := Validate(doc); err != nil {
		return err
	}
	data := pageData{
		Name:    doc.Name,
		Styles:  template.CSS(pageStyles(doc.Settings)),
		Effects: template.JS(effectsScript),
	}
	for _, it := range items {
		data.Rules = append(data.Rules, template.CSS(positionRule(it)))
		data.Fragments = append(data.Fragments, it.ExportMarkup())
		if s := strings.TrimSpace(it.Script()); s != "" {
			data.Scripts = append(data.Scripts, template.JS(s))
		} else {
			data.Scripts = append(data.Scripts, template.JS(fmt.Sprintf("// %s (%s): no interactions", it.ID(), it.Type())))
		}
	}
	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

func positionRule(it Item) string {
	pos, dims := it.Position(), it.Dimensions()
	var b strings.Builder
	fmt.Fprintf(&b, ".component-%s { left: %spx; top: %spx;", it.ID(), domain.FormatValue(pos.X), domain.FormatValue(pos.Y))
	if dims.Width > 0 {
		fmt.Fprintf(&b, " width: %spx;", domain.FormatValue(dims.Width))
	}
	if dims.Height > 0 {
		fmt.Fprintf(&b, " height: %spx;", domain.FormatValue(dims.Height))
	}
	if z, ok := it.ZIndex(); ok {
		fmt.Fprintf(&b, " z-index: %d;", z)
	}
	b.WriteString(" }")
	return b.String()
}

func pageStyles(s domain.Settings) string {
	bg := cssValue(s.BackgroundColor, "#0a0a0a")
	var image string
	if s.BackgroundImage != nil && strings.TrimSpace(*s.BackgroundImage) != "" {
		image = fmt.Sprintf("\nbody { background-image: url(%q); background-size: cover; }", cssValue(*s.BackgroundImage, ""))
	}
	return strings.Replace(baseStyles, "{{BACKGROUND}}", bg, 1) + image
}

func cssValue(v, def string) string {
	v = strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\\':
			return -1
		}
		return r
	}, strings.TrimSpace(v))
	if v == "" {
		return def
	}
	return v
}

const baseStyles = `/* Spooky Web Builder - Generated Styles */
:root {
    --color-primary: {{BACKGROUND}};
    --color-secondary: #ff6b35;
    --color-accent: #8b5cf6;
    --color-warning: #10b981;
    --color-background: #1a1a1a;
    --color-text: #f8fafc;
    --color-text-dim: #94a3b8;
    --color-border: #374151;
    --glow-orange: 0 0 20px rgba(255, 107, 53, 0.5);
    --glow-purple: 0 0 20px rgba(139, 92, 246, 0.5);
    --glow-white: 0 0 15px rgba(248, 250, 252, 0.3);
    --font-primary: 'Creepster', cursive;
    --font-secondary: 'Courier New', monospace;
    --font-accent: 'Nosifer', cursive;
    --font-body: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
}
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
    font-family: var(--font-body);
    background: var(--color-primary);
    color: var(--color-text);
    min-height: 100vh;
    position: relative;
}
.spooky-container { position: relative; width: 100%; min-height: 100vh; padding: 20px; }
.spooky-component { position: absolute; transition: all 0.3s ease; }
.spooky-component:hover { transform: translateY(-2px); filter: drop-shadow(0 4px 8px rgba(0, 0, 0, 0.3)); }
.ghostly-text { font-family: var(--font-primary); text-shadow: var(--glow-white); animation: ghostlyGlow 3s ease-in-out infinite; }
@keyframes ghostlyGlow { 0%, 100% { text-shadow: var(--glow-white); } 50% { text-shadow: 0 0 30px rgba(248, 250, 252, 0.6); } }
.dripping-text { font-family: var(--font-accent); position: relative; }
.haunted-btn {
    background: linear-gradient(135deg, var(--color-background), #2d3748);
    border: 2px solid var(--color-secondary);
    color: var(--color-text);
    padding: 12px 24px;
    border-radius: 6px;
    cursor: pointer;
}
.haunted-btn:hover { border-color: var(--color-accent); box-shadow: var(--glow-purple); }
.glowing-btn { border: none; color: var(--color-text); padding: 12px 24px; border-radius: 25px; cursor: pointer; animation: pulseGlow 2s ease-in-out infinite; }
@keyframes pulseGlow { 0%, 100% { transform: scale(1); } 50% { transform: scale(1.05); } }
.ghostly-input { background: rgba(26, 26, 26, 0.8); border: 1px solid var(--color-border); color: var(--color-text); padding: 12px 16px; border-radius: 6px; width: 100%; }
.flickering-text { animation: flicker 2s ease-in-out infinite; }
@keyframes flicker { 0%, 100% { opacity: 1; } 50% { opacity: 0.8; } 75% { opacity: 0.9; } 85% { opacity: 0.7; } }
.cursed-text { animation: cursedShake 4s ease-in-out infinite; }
@keyframes cursedShake { 0%, 100% { transform: translateX(0); } 25% { transform: translateX(-2px); } 75% { transform: translateX(2px); } }
.phantom-img { opacity: 0.8; animation: phantomFade 4s ease-in-out infinite; }
@keyframes phantomFade { 0%, 100% { opacity: 0.8; } 50% { opacity: 0.4; } }
.glitch-img { animation: glitchEffect 3s ease-in-out infinite; }
@keyframes glitchEffect { 0%, 100% { transform: translateX(0); } 40% { transform: translateX(2px); } 80% { transform: translateX(-1px); } }
.haunted-form { background: rgba(26, 26, 26, 0.8); border: 1px solid var(--color-border); border-radius: 8px; padding: 20px; }
.form-group { margin-bottom: 16px; }
.form-group label { display: block; margin-bottom: 4px; color: var(--color-text-dim); font-size: 0.9rem; }
.retro-landing-container { border: 2px solid #c0c0c0; background: #000000; font-family: 'VT323', monospace; color: #00ff00; text-shadow: 0 0 10px #00ff00; }
@media (max-width: 768px) {
    .spooky-container { padding: 10px; }
    .spooky-component { position: relative !important; margin-bottom: 20px; }
}`

const effectsScript = `function initializeSpookyEffects() {
    document.querySelectorAll(".ghostly-text").forEach(function(el) {
        el.addEventListener("mouseenter", function() { this.style.transform = "translateY(-5px) scale(1.05)"; });
        el.addEventListener("mouseleave", function() { this.style.transform = "translateY(0) scale(1)"; });
    });
    document.querySelectorAll(".haunted-btn, .glowing-btn").forEach(function(el) {
        el.addEventListener("mouseenter", function() { this.style.transform = "translateY(-2px) scale(1.05)"; });
        el.addEventListener("mouseleave", function() { this.style.transform = "translateY(0) scale(1)"; });
    });
    document.querySelectorAll(".ghostly-input").forEach(function(el) {
        el.addEventListener("focus", function() { this.style.transform = "scale(1.02)"; });
        el.addEventListener("blur", function() { this.style.transform = "scale(1)"; });
    });
}
`
