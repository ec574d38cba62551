/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package builtin declares the component types shipped with the builder and
// assembles them into a registry.
package builtin

import (
	"encoding/json"
	"fmt"

	c "spookybuilder/internal/component"
	"spookybuilder/internal/domain"
)

// Palette categories.
const (
	CategoryHeaders   = "headers"
	CategoryButtons   = "buttons"
	CategoryInputs    = "inputs"
	CategoryImages    = "images"
	CategoryText      = "text"
	CategoryTemplates = "templates"
	CategoryStudio    = "studio"
	CategoryCards     = "cards"
)

// Template type tags used by LoadTemplate.
const (
	RetroLandingPage   = "retro-landing-page"
	HauntedMansion     = "haunted-mansion-template"
	GraveyardPortfolio = "graveyard-portfolio-template"
)

// TemplateProjectName maps a template type to the name of the project it creates.
func TemplateProjectName(typ string) string {
	switch typ {
	case HauntedMansion:
		return "Haunted Mansion Website"
	case GraveyardPortfolio:
		return "Digital Graveyard Portfolio"
	case RetroLandingPage:
		return "Retro 1995 Landing Page"
	}
	return "Spooky Template"
}

// IsTemplate reports whether typ is a full-page template.
func IsTemplate(typ string) bool {
	return typ == RetroLandingPage || typ == HauntedMansion || typ == GraveyardPortfolio
}

func text(name, label, def string) c.Field {
	return c.Field{Name: name, Label: label, Kind: c.KindString, Control: c.ControlText, Default: def}
}

func textarea(name, label, def string) c.Field {
	return c.Field{Name: name, Label: label, Kind: c.KindString, Control: c.ControlTextarea, Default: def}
}

func color(name, label, def string) c.Field {
	return c.Field{Name: name, Label: label, Kind: c.KindString, Control: c.ControlColor, Default: def}
}

func hidden(name, def string) c.Field {
	return c.Field{Name: name, Label: name, Kind: c.KindString, Default: def}
}

func choice(name, label, def string, opts ...string) c.Field {
	f := c.Field{Name: name, Label: label, Kind: c.KindEnum, Control: c.ControlSelect, Default: def}
	for i := 0; i+1 < len(opts); i += 2 {
		f.Options = append(f.Options, c.Option{Value: opts[i], Label: opts[i+1]})
	}
	return f
}

func toggle(name, label string, def bool) c.Field {
	return c.Field{Name: name, Label: label, Kind: c.KindBool, Control: c.ControlCheckbox, Default: def}
}

var alignOptions = []string{"left", "Left", "center", "Center", "right", "Right"}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func hauntedButtonScript(id string, props domain.Properties) string {
	var action string
	switch props.String("action") {
	case "console":
		action = `console.log("👻 Haunted button clicked!");`
	case "custom":
		action = `document.dispatchEvent(new CustomEvent("haunted-button", {detail: ` + jsString(id) + `}));`
	default:
		action = `alert("👻 Boo! You clicked the haunted button!");`
	}
	return fmt.Sprintf(`document.querySelector(".component-%s .haunted-btn")?.addEventListener("click", function() { %s });`, id, action)
}

func retroLandingScript(id string, props domain.Properties) string {
	if !props.Bool("sequenceEnabled") {
		return ""
	}
	return fmt.Sprintf(`document.querySelector(".component-%s .launch-sequence-btn")?.addEventListener("click", function() { window.open("retro-landing.html", "_blank", "width=1024,height=768"); });`, id)
}

// Specs returns the declarations of every built-in component type in palette order.
func Specs() []c.Spec {
	return []c.Spec{
		{
			Type: "ghostly-header", Label: "Ghostly Header", Category: CategoryHeaders,
			Template: ghostlyHeaderTmpl,
			Fields: c.Schema{
				text("text", "Header Text", "Haunted Title"),
				text("fontSize", "Font Size", "32px"),
				hidden("fontFamily", "Creepster, cursive"),
				choice("textAlign", "Text Alignment", "center", alignOptions...),
				{Name: "glowIntensity", Label: "Glow Intensity", Kind: c.KindString, Control: c.ControlRange, Default: "20px", Min: 0, Max: 50, Step: 1},
			},
		},
		{
			Type: "dripping-header", Label: "Dripping Header", Category: CategoryHeaders,
			Template: drippingHeaderTmpl,
			Fields: c.Schema{
				text("text", "Header Text", "Dripping Title"),
				text("fontSize", "Font Size", "32px"),
				hidden("fontFamily", "Nosifer, cursive"),
				choice("textAlign", "Text Alignment", "center", alignOptions...),
				color("dripColor", "Drip Color", "#ff6b35"),
			},
		},
		{
			Type: "haunted-button", Label: "Haunted Button", Category: CategoryButtons,
			Template: hauntedButtonTmpl, Script: hauntedButtonScript,
			Dimensions: domain.Size{Width: 200, Height: 60},
			Fields: c.Schema{
				text("text", "Button Text", "Spooky Button"),
				color("buttonColor", "Button Color", "#ff6b35"),
				color("hoverColor", "Hover Color", "#8b5cf6"),
				choice("action", "Click Action", "alert", "alert", "Show Alert", "console", "Log to Console", "custom", "Custom Action"),
			},
		},
		{
			Type: "glowing-button", Label: "Glowing Button", Category: CategoryButtons,
			Template:   glowingButtonTmpl,
			Dimensions: domain.Size{Width: 200, Height: 60},
			Fields: c.Schema{
				text("text", "Button Text", "Glowing Button"),
				color("glowColor", "Glow Color", "#8b5cf6"),
				choice("pulseSpeed", "Pulse Speed", "2s", "1s", "Fast", "2s", "Normal", "3s", "Slow"),
			},
		},
		{
			Type: "ghostly-input", Label: "Ghostly Input", Category: CategoryInputs,
			Template:   ghostlyInputTmpl,
			Dimensions: domain.Size{Width: 260, Height: 60},
			Fields: c.Schema{
				text("placeholder", "Placeholder Text", "Enter your fears..."),
				choice("inputType", "Input Type", "text", "text", "Text", "email", "Email", "password", "Password", "number", "Number"),
				color("borderColor", "Border Color", "#374151"),
				color("focusColor", "Focus Color", "#8b5cf6"),
			},
		},
		{
			Type: "haunted-form", Label: "Haunted Form", Category: CategoryInputs,
			Template:   hauntedFormTmpl,
			Dimensions: domain.Size{Width: 320, Height: 360},
			Fields: c.Schema{
				text("title", "Form Title", "Contact the Spirits"),
				text("submitText", "Submit Text", "Send to the Void"),
				text("fields", "Fields (comma separated)", "name,email,message"),
			},
		},
		{
			Type: "phantom-image", Label: "Phantom Image", Category: CategoryImages,
			Template:   phantomImageTmpl,
			Dimensions: domain.Size{Width: 200, Height: 150},
			Fields: c.Schema{
				text("src", "Image URL", ""),
				text("alt", "Alt Text", "Phantom Image"),
				choice("fadeSpeed", "Fade Speed", "4s", "2s", "Fast", "4s", "Normal", "6s", "Slow"),
			},
		},
		{
			Type: "glitch-image", Label: "Glitch Image", Category: CategoryImages,
			Template:   glitchImageTmpl,
			Dimensions: domain.Size{Width: 200, Height: 150},
			Fields: c.Schema{
				text("src", "Image URL", ""),
				text("alt", "Alt Text", "Glitch Image"),
				choice("glitchIntensity", "Glitch Intensity", "medium", "low", "Low", "medium", "Medium", "high", "High"),
			},
		},
		{
			Type: "flickering-text", Label: "Flickering Text", Category: CategoryText,
			Template: flickeringTextTmpl,
			Fields: c.Schema{
				text("text", "Text", "Flickering Text"),
				choice("flickerSpeed", "Flicker Speed", "2s", "1s", "Fast", "2s", "Normal", "4s", "Slow"),
			},
		},
		{
			Type: "cursed-paragraph", Label: "Cursed Paragraph", Category: CategoryText,
			Template: cursedParagraphTmpl,
			Fields: c.Schema{
				textarea("text", "Cursed Text", "This text is cursed with ancient magic..."),
				color("cursedColor", "Cursed Color", "#10b981"),
				choice("shakeIntensity", "Shake Intensity", "low", "low", "Low", "medium", "Medium", "high", "High"),
			},
		},
		{
			Type: RetroLandingPage, Label: "Retro 1995 Landing", Category: CategoryTemplates,
			Template: retroLandingTmpl, Script: retroLandingScript,
			Dimensions: domain.Size{Width: 800, Height: 600},
			Fields: c.Schema{
				toggle("sequenceEnabled", "Enable Opening Sequence", true),
				toggle("autoStart", "Auto-start Sequence", true),
				toggle("skipEnabled", "Allow Sequence Skip", true),
				text("width", "Container Width", "800px"),
				text("height", "Container Height", "600px"),
			},
		},
		{
			Type: HauntedMansion, Label: "Haunted Mansion", Category: CategoryTemplates,
			Template:   hauntedMansionTmpl,
			Dimensions: domain.Size{Width: 1200, Height: 900},
			Fields: c.Schema{
				text("siteName", "Site Name", "Haunted Mansion"),
				text("tagline", "Tagline", "Welcome to the Dark Side"),
				text("heroText", "Hero Text", "Enter if you dare..."),
				textarea("aboutText", "About Text", "This ancient mansion holds secrets from centuries past."),
				text("contactEmail", "Contact Email", "spirits@hauntedmansion.com"),
				hidden("width", "100%"),
				hidden("height", "100vh"),
			},
		},
		{
			Type: GraveyardPortfolio, Label: "Graveyard Portfolio", Category: CategoryTemplates,
			Template:   graveyardPortfolioTmpl,
			Dimensions: domain.Size{Width: 1200, Height: 900},
			Fields: c.Schema{
				text("siteName", "Site Name", "Digital Graveyard"),
				hidden("subtitle", "Portfolio of the Departed"),
				text("heroTitle", "Hero Title", "Welcome to My Digital Afterlife"),
				text("heroSubtitle", "Hero Subtitle", "Where creativity never dies"),
				text("aboutTitle", "About Title", "About the Phantom Developer"),
				textarea("aboutText", "About Text", "I am a spirit who codes beyond the veil, creating digital experiences that haunt the web."),
				text("skillsTitle", "Skills Title", "Spectral Skills"),
				text("portfolioTitle", "Portfolio Title", "Haunted Projects"),
				text("contactTitle", "Contact Title", "Summon Me"),
				hidden("width", "100%"),
				hidden("height", "100vh"),
			},
		},
		{
			Type: "text", Label: "Text", Category: CategoryStudio,
			Template:   studioTextTmpl,
			Dimensions: domain.Size{Width: 160, Height: 40},
			Fields: c.Schema{
				color("textColor", "Text Color", "#ffffff"),
				text("fontSize", "Font Size", "18px"),
				hidden("fontFamily", "Poppins, sans-serif"),
				text("padding", "Padding", "8px"),
				textarea("text", "Text", "Double click to edit"),
			},
		},
		{
			Type: "shape", Label: "Shape", Category: CategoryStudio,
			Template:   shapeTmpl,
			Dimensions: domain.Size{Width: 100, Height: 60},
			Fields: c.Schema{
				text("padding", "Padding", "0px"),
				choice("shapeType", "Shape", "rectangle", "rectangle", "Rectangle", "circle", "Circle", "triangle", "Triangle", "star", "Star"),
				color("fillColor", "Fill Color", "#ff6b9d"),
				color("strokeColor", "Stroke Color", "#c44569"),
				{Name: "strokeWidth", Label: "Stroke Width", Kind: c.KindNumber, Control: c.ControlRange, Default: 0.0, Min: 0, Max: 20, Step: 1},
			},
		},
		{
			Type: "card-text", Label: "Greeting Text", Category: CategoryCards,
			Template:   cardTextTmpl,
			Dimensions: domain.Size{Width: 400, Height: 80},
			Fields: c.Schema{
				color("textColor", "Text Color", "#333333"),
				text("fontSize", "Font Size", "32px"),
				hidden("fontFamily", "Dancing Script, cursive"),
				textarea("text", "Message", "Happy Birthday!"),
				choice("textAlign", "Text Alignment", "center", alignOptions...),
				{Name: "textShadow", Label: "Text Shadow", Kind: c.KindEnum, Control: c.ControlCheckbox, Default: "enabled"},
			},
		},
		{
			Type: "card-sticker", Label: "Sticker", Category: CategoryCards,
			Template:   cardStickerTmpl,
			Dimensions: domain.Size{Width: 60, Height: 60},
			Fields: c.Schema{
				text("fontSize", "Size", "40px"),
				text("padding", "Padding", "0px"),
				choice("sticker", "Sticker", "🎃", "🎃", "Pumpkin", "👻", "Ghost", "🦇", "Bat", "💀", "Skull", "🕷️", "Spider", "🎂", "Cake", "🎈", "Balloon"),
			},
		},
	}
}

// Variants builds every built-in variant.
func Variants() []c.Variant {
	specs := Specs()
	out := make([]c.Variant, 0, len(specs))
	for _, s := range specs {
		out = append(out, c.MustVariant(s))
	}
	return out
}

// NewRegistry returns a registry holding every built-in type.
func NewRegistry() *c.Registry {
	r := c.NewRegistry()
	for _, v := range Variants() {
		if err := r.Register(v); err != nil {
			panic(err)
		}
	}
	return r
}
