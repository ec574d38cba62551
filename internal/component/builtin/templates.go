/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package builtin

// Content templates. Dot is the component's domain.Properties.

const ghostlyHeaderTmpl = `<h1 class="ghostly-text" style="margin: 0; font-size: {{css (.String "fontSize")}}; font-family: {{css (.String "fontFamily")}}; text-align: {{css (.String "textAlign")}}; text-shadow: 0 0 {{css (px (.String "glowIntensity"))}} rgba(248, 250, 252, 0.3);">{{.String "text"}}</h1>`

const drippingHeaderTmpl = `<h1 class="dripping-text" style="margin: 0; font-size: {{css (.String "fontSize")}}; font-family: {{css (.String "fontFamily")}}; text-align: {{css (.String "textAlign")}}; color: {{css (.String "dripColor")}}; text-shadow: 0 0 20px {{css (.String "dripColor")}}; position: relative;">{{.String "text"}}</h1>`

const hauntedButtonTmpl = `<button class="haunted-btn" data-action="{{.String "action"}}" style="background: linear-gradient(135deg, #1a1a1a, #2d3748); border: 2px solid {{css (.String "buttonColor")}}; color: {{css (.String "textColor")}}; padding: 12px 24px; font-size: {{css (.String "fontSize")}}; border-radius: {{css (.String "borderRadius")}}; cursor: pointer; transition: all 0.3s ease;">{{.String "text"}}</button>`

const glowingButtonTmpl = `<button class="glowing-btn" style="background: {{css (.String "glowColor")}}; border: none; color: {{css (.String "textColor")}}; padding: 12px 24px; font-size: {{css (.String "fontSize")}}; border-radius: 25px; cursor: pointer; box-shadow: 0 0 20px {{css (.String "glowColor")}}; animation: pulseGlow {{css (.String "pulseSpeed")}} ease-in-out infinite;">{{.String "text"}}</button>`

const ghostlyInputTmpl = `<input type="{{.String "inputType"}}" class="ghostly-input" placeholder="{{.String "placeholder"}}" style="background: rgba(26, 26, 26, 0.8); border: 1px solid {{css (.String "borderColor")}}; color: {{css (.String "textColor")}}; padding: 12px 16px; border-radius: {{css (.String "borderRadius")}}; font-size: {{css (.String "fontSize")}}; width: 100%;">`

const hauntedFormTmpl = `<div class="haunted-form">
<h3 style="margin-bottom: 16px; color: {{css (.String "textColor")}};">{{.String "title"}}</h3>
{{range list (.String "fields")}}<div class="form-group"><label>{{title .}}</label>{{if eq . "message"}}<textarea class="ghostly-input" placeholder="Enter your {{.}}..." rows="4"></textarea>{{else}}<input type="{{inputType .}}" class="ghostly-input" placeholder="Enter your {{.}}...">{{end}}</div>
{{end}}<button class="haunted-btn" style="width: 100%; margin-top: 16px;">{{.String "submitText"}}</button>
</div>`

const phantomImageTmpl = `{{if .String "src"}}<img src="{{url (.String "src")}}" alt="{{.String "alt"}}" class="phantom-img" style="width: 100%; height: 100%; object-fit: cover; border-radius: {{css (.String "borderRadius")}}; animation: phantomFade {{css (.String "fadeSpeed")}} ease-in-out infinite;">{{else}}<div class="phantom-img" style="width: 200px; height: 150px; display: flex; align-items: center; justify-content: center; font-size: 3rem; color: #94a3b8; border: 2px dashed #374151; border-radius: {{css (.String "borderRadius")}};">🖼️</div>{{end}}`

const glitchImageTmpl = `{{if .String "src"}}<img src="{{url (.String "src")}}" alt="{{.String "alt"}}" class="glitch-effect glitch-{{.String "glitchIntensity"}}" style="width: 100%; height: 100%; object-fit: cover;">{{else}}<div class="glitch-img" style="width: 200px; height: 150px; display: flex; align-items: center; justify-content: center; font-size: 3rem; color: #ff6b35; border: 2px solid #ff6b35; border-radius: {{css (.String "borderRadius")}};">📸</div>{{end}}`

const flickeringTextTmpl = `<p class="flickering-text" style="margin: 0; font-size: {{css (.String "fontSize")}}; color: {{css (.String "textColor")}}; animation: flicker {{css (.String "flickerSpeed")}} ease-in-out infinite;">{{.String "text"}}</p>`

const cursedParagraphTmpl = `<p class="cursed-text shake-{{.String "shakeIntensity"}}" style="margin: 0; font-size: {{css (.String "fontSize")}}; color: {{css (.String "cursedColor")}}; text-shadow: 0 0 20px {{css (.String "cursedColor")}}; animation: cursedShake 4s ease-in-out infinite;">{{.String "text"}}</p>`

const retroLandingTmpl = `<div class="retro-landing-container" data-sequence="{{.String "sequenceEnabled"}}" data-autostart="{{.String "autoStart"}}" data-skip="{{.String "skipEnabled"}}" style="width: {{css (.String "width")}}; height: {{css (.String "height")}}; background: #000000; border: 2px solid #c0c0c0; position: relative; overflow: hidden; font-family: 'VT323', monospace;">
<div class="landing-preview"><div class="preview-monitor" style="width: 100%; height: 100%; background: radial-gradient(ellipse at center, #003300 0%, #000000 40%); display: flex; align-items: center; justify-content: center; color: #00ff00; font-size: 24px; text-shadow: 0 0 20px #00ff00;">
<div class="preview-content"><div style="margin-bottom: 20px;">📺 1995 RETRO EXPERIENCE</div><div style="font-size: 16px; opacity: 0.7;">Click to launch full sequence</div></div>
</div></div>
<button class="launch-sequence-btn" style="position: absolute; bottom: 20px; right: 20px; background: #c0c0c0; border: 2px outset #c0c0c0; padding: 8px 16px; font-family: 'VT323', monospace; font-size: 14px; cursor: pointer;">Launch Sequence</button>
</div>`

const hauntedMansionTmpl = `<div class="mansion-template" style="width: {{css (.String "width")}}; min-height: {{css (.String "height")}}; background: linear-gradient(180deg, #0a0a0a 0%, #1a0f1f 100%);">
<nav class="mansion-nav" style="display: flex; justify-content: space-between; align-items: center; padding: 20px 40px; border-bottom: 1px solid #374151;">
<div class="mansion-logo" style="font-family: 'Creepster', cursive; font-size: 28px; color: #ff6b35;">{{.String "siteName"}}</div>
<div class="mansion-links"><a href="#about" style="color: #f8fafc; margin-left: 20px;">About</a><a href="#contact" style="color: #f8fafc; margin-left: 20px;">Contact</a></div>
</nav>
<section class="mansion-hero" style="text-align: center; padding: 120px 40px;">
<h1 style="font-family: 'Nosifer', cursive; font-size: 48px; color: #8b5cf6; text-shadow: 0 0 30px #8b5cf6;">{{.String "tagline"}}</h1>
<p style="font-size: 20px; color: #94a3b8; margin-top: 20px;">{{.String "heroText"}}</p>
</section>
<section id="about" class="mansion-about" style="padding: 80px 40px; max-width: 800px; margin: 0 auto;">
<h2 style="font-family: 'Creepster', cursive; font-size: 36px; color: #ff6b35;">About the Mansion</h2>
<p style="margin-top: 16px; line-height: 1.7;">{{.String "aboutText"}}</p>
</section>
<section id="contact" class="mansion-contact" style="padding: 80px 40px; text-align: center;">
<h2 style="font-family: 'Creepster', cursive; font-size: 36px; color: #10b981;">Contact the Spirits</h2>
<a href="mailto:{{.String "contactEmail"}}" style="color: #8b5cf6; font-size: 20px;">{{.String "contactEmail"}}</a>
</section>
</div>`

const graveyardPortfolioTmpl = `<div class="graveyard-template" style="width: {{css (.String "width")}}; min-height: {{css (.String "height")}}; background: radial-gradient(ellipse at top, #1a2e1a 0%, #0a0a0a 60%);">
<header class="graveyard-header" style="padding: 20px 40px; display: flex; justify-content: space-between; align-items: baseline;">
<div style="font-family: 'Creepster', cursive; font-size: 28px; color: #10b981;">{{.String "siteName"}}</div>
<div style="color: #94a3b8;">{{.String "subtitle"}}</div>
</header>
<section class="graveyard-hero" style="text-align: center; padding: 120px 40px;">
<h1 style="font-family: 'Nosifer', cursive; font-size: 44px; color: #f8fafc; text-shadow: 0 0 30px #10b981;">{{.String "heroTitle"}}</h1>
<p style="font-size: 20px; color: #94a3b8; margin-top: 20px;">{{.String "heroSubtitle"}}</p>
</section>
<section id="about" style="padding: 80px 40px; max-width: 800px; margin: 0 auto;">
<h2 style="font-family: 'Creepster', cursive; font-size: 36px; color: #10b981;">{{.String "aboutTitle"}}</h2>
<p style="margin-top: 16px; line-height: 1.7;">{{.String "aboutText"}}</p>
</section>
<section id="skills" style="padding: 80px 40px;"><h2 style="font-family: 'Creepster', cursive; font-size: 36px; color: #10b981; text-align: center;">{{.String "skillsTitle"}}</h2>
<div class="skills-grid" style="display: flex; gap: 20px; justify-content: center; margin-top: 30px;"><div class="skill-item">Necromantic JavaScript</div><div class="skill-item">Spectral CSS</div><div class="skill-item">Haunted Go</div></div>
</section>
<section id="portfolio" style="padding: 80px 40px;"><h2 style="font-family: 'Creepster', cursive; font-size: 36px; color: #10b981; text-align: center;">{{.String "portfolioTitle"}}</h2>
<div class="portfolio-grid" style="display: flex; gap: 20px; justify-content: center; margin-top: 30px;"><div class="portfolio-item">Tombstone Tracker</div><div class="portfolio-item">Séance Scheduler</div></div>
</section>
<section id="contact" style="padding: 80px 40px; text-align: center;"><h2 style="font-family: 'Creepster', cursive; font-size: 36px; color: #10b981;">{{.String "contactTitle"}}</h2></section>
</div>`

const studioTextTmpl = `<div class="text-element" style="font-family: {{css (.String "fontFamily")}}; font-size: {{css (.String "fontSize")}}; color: {{css (.String "textColor")}}; min-width: 100px;">{{.String "text"}}</div>`

const shapeTmpl = `{{$k := .String "shapeType"}}{{if or (eq $k "triangle") (eq $k "star")}}<div class="shape-element shape-{{$k}}" style="font-size: 60px; color: {{css (.String "fillColor")}};">{{if eq $k "triangle"}}🔺{{else}}⭐{{end}}</div>{{else}}<div class="shape-element shape-{{$k}}" style="width: 100%; height: 100%; background: {{css (.String "fillColor")}}; border: {{css (px (.String "strokeWidth"))}} solid {{css (.String "strokeColor")}};{{if eq $k "circle"}} border-radius: 50%;{{end}}"></div>{{end}}`

const cardTextTmpl = `<div class="card-text{{if eq (.String "textShadow") "enabled"}} text-shadow{{end}}" style="font-family: {{css (.String "fontFamily")}}; font-size: {{css (.String "fontSize")}}; color: {{css (.String "textColor")}}; text-align: {{css (.String "textAlign")}};">{{.String "text"}}</div>`

const cardStickerTmpl = `<div class="canvas-sticker" style="font-size: {{css (.String "fontSize")}}; filter: drop-shadow(0 0 10px var(--spooky-glow));">{{.String "sticker"}}</div>`
