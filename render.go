package tourguide

import (
	"bytes"
	"html/template"
	"io"
)

var overlayFuncs = template.FuncMap{
	"markdown": func(s string) template.HTML {
		out, err := RenderStepContent(s)
		if err != nil {
			return template.HTML(template.HTMLEscapeString(s))
		}
		return out
	},
	"layerTooltip":  func() int { return LayerTooltip },
	"layerControls": func() int { return LayerControls },
}

var overlayTemplate = template.Must(template.New("overlay").Funcs(overlayFuncs).Parse(`
{{- define "tooltip" -}}
<div class="tour-tooltip tour-tooltip--{{.Position}} tour-tooltip--{{.Phase}}" role="dialog" aria-labelledby="tour-title-{{.StepIndex}}" data-step="{{.StepIndex}}" data-target="{{.Target}}" data-position="{{.Position}}" style="z-index: {{layerTooltip}}">
<h3 class="tour-tooltip-title" id="tour-title-{{.StepIndex}}">{{.Title}}</h3>
<div class="tour-tooltip-body">{{markdown .Content}}</div>
</div>
{{- end -}}
<div class="tour-overlay" data-tour-active="{{.State.IsActive}}" data-tour-step="{{.State.CurrentStep}}" data-tour-total="{{.State.TotalSteps}}">
{{- with .Exiting}}{{template "tooltip" .}}{{end}}
{{- with .Step}}{{if .TargetFound}}{{template "tooltip" .}}{{end}}{{end}}
{{- if .State.IsActive}}
<div class="tour-controls" style="z-index: {{layerControls}}">
{{- if not .Progress.Empty}}
<div class="tour-progress" aria-label="Step {{.Progress.Label}}">
<span class="tour-progress-label">{{.Progress.Label}}</span>
<ol class="tour-progress-dots">{{range .Progress.Dots}}<li class="tour-dot{{if .Active}} tour-dot--active{{end}}" data-dot="{{.Index}}"></li>{{end}}</ol>
</div>
{{- end}}
<nav class="tour-nav">
{{- if .Nav.ShowPrev}}<button type="button" class="tour-btn tour-btn--prev" data-tour-action="prev">Previous</button>{{end}}
{{- if .Nav.ShowNext}}<button type="button" class="tour-btn tour-btn--next" data-tour-action="next">Next</button>{{end}}
{{- if .Nav.ShowFinish}}<button type="button" class="tour-btn tour-btn--finish" data-tour-action="end">Finish</button>{{end}}
</nav>
</div>
{{- end}}
</div>`))

// RenderOverlay writes the tour chrome for f. A step whose target was not
// found gets no tooltip, but its controls still render.
func RenderOverlay(w io.Writer, f Frame) error {
	return overlayTemplate.Execute(w, f)
}

// HTML renders the frame overlay to a string.
func (f Frame) HTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := RenderOverlay(&buf, f); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
