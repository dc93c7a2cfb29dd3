package render

import (
	"log/slog"

	"civiclink/internal/officials"
	"civiclink/internal/platform/metrics"
)

// Controller owns the render target of one page document.
type Controller struct {
	doc     *Document
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// NewController wraps doc. Each selector in templates is detached from the
// live document up front so it is never itself rendered.
func NewController(doc *Document, templates []string, opts ...Option) (*Controller, error) {
	c := &Controller{doc: doc, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	for _, sel := range templates {
		if err := doc.Detach(sel); err != nil {
			return nil, err
		}
	}
	if c.metrics != nil {
		doc.onApply = func(k OpKind) { c.metrics.IncrementRenderOp(string(k)) }
	}
	return c, nil
}

// Document returns the controlled document.
func (c *Controller) Document() *Document {
	return c.doc
}

// RenderList runs the list strategy.
func (c *Controller) RenderList(views officials.ResultSet) error {
	return c.apply("list", ListPlan(views))
}

// RenderResults runs the replace strategy.
func (c *Controller) RenderResults(views officials.ResultSet) error {
	return c.apply("replace", ReplacePlan(views))
}

// RenderDetail runs the detail strategy.
func (c *Controller) RenderDetail(view officials.OfficialView) error {
	return c.apply("detail", DetailPlan(view))
}

// ShowAlert sets or clears the alert region.
func (c *Controller) ShowAlert(msg string) error {
	return c.apply("alert", AlertPlan(msg))
}

// SetLabel sets the connect button label.
func (c *Controller) SetLabel(label string) error {
	return c.apply("label", LabelPlan(label))
}

// SetSearchTerm echoes term into the search input.
func (c *Controller) SetSearchTerm(term string) error {
	return c.apply("input", InputPlan(term))
}

func (c *Controller) apply(strategy string, plan Plan) error {
	if err := c.doc.Apply(plan); err != nil {
		c.logger.Error("render failed",
			"strategy", strategy,
			"ops", len(plan),
			"error", err,
		)
		return err
	}
	return nil
}
