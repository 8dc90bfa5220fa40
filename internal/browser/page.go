// internal/browser/page.go
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Tab implements Page on top of a chromedp tab context.
type Tab struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

// Navigate loads a URL and waits for the document body.
func (t *Tab) Navigate(ctx context.Context, url string) error {
	runCtx := t.ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, t.timeout)
		defer cancel()
	}

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return fmt.Errorf("navigation failed for %s: %w", url, err)
	}
	return nil
}

// WaitVisible blocks until the selector matches a visible element or
// the timeout elapses.
func (t *Tab) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(t.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector)); err != nil {
		return fmt.Errorf("element wait timeout for %q: %w", selector, err)
	}
	return nil
}

// HTML returns the full page HTML.
func (t *Tab) HTML(ctx context.Context) (string, error) {
	var html string
	if err := chromedp.Run(t.ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

// Query returns all elements matching the selector.
func (t *Tab) Query(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := chromedp.Run(t.ctx,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, fmt.Errorf("query failed for %q: %w", selector, err)
	}

	elements := make([]Element, 0, len(nodes))
	for _, node := range nodes {
		elements = append(elements, &nodeElement{tab: t, node: node})
	}
	return elements, nil
}

// Click clicks the first element matching the selector.
func (t *Tab) Click(ctx context.Context, selector string) error {
	if err := chromedp.Run(t.ctx, chromedp.Click(selector, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click failed for %q: %w", selector, err)
	}
	return nil
}

// Evaluate runs JavaScript on the page.
func (t *Tab) Evaluate(ctx context.Context, script string, out interface{}) error {
	var action chromedp.Action
	if out == nil {
		action = chromedp.Evaluate(script, nil)
	} else {
		action = chromedp.Evaluate(script, out)
	}
	if err := chromedp.Run(t.ctx, action); err != nil {
		return fmt.Errorf("script execution failed: %w", err)
	}
	return nil
}

// Close releases the tab.
func (t *Tab) Close() error {
	if t.cancel != nil {
		t.cancel()
	}
	return nil
}

// nodeElement implements Element for one resolved DOM node.
type nodeElement struct {
	tab  *Tab
	node *cdp.Node
}

func (e *nodeElement) Text(ctx context.Context) (string, error) {
	var text string
	err := chromedp.Run(e.tab.ctx,
		chromedp.Text([]cdp.NodeID{e.node.NodeID}, &text, chromedp.ByNodeID),
	)
	if err != nil {
		return "", fmt.Errorf("failed to read node text: %w", err)
	}
	return text, nil
}

func (e *nodeElement) Click(ctx context.Context) error {
	if err := chromedp.Run(e.tab.ctx, chromedp.MouseClickNode(e.node)); err != nil {
		return fmt.Errorf("node click failed: %w", err)
	}
	return nil
}

// ClickParent resolves the node to a runtime object and clicks its
// parent element through JavaScript. The site wraps clickable rows in
// containers whose text nodes are what selectors match.
func (e *nodeElement) ClickParent(ctx context.Context) error {
	err := chromedp.Run(e.tab.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		object, err := dom.ResolveNode().WithNodeID(e.node.NodeID).Do(ctx)
		if err != nil {
			return err
		}
		_, exception, err := runtime.CallFunctionOn("function() { this.parentElement.click(); }").
			WithObjectID(object.ObjectID).
			Do(ctx)
		if err != nil {
			return err
		}
		if exception != nil {
			return exception
		}
		return nil
	}))
	if err != nil {
		return fmt.Errorf("parent click failed: %w", err)
	}
	return nil
}

// Hover dispatches a mouse move to the node's center, which is what
// opens hover-triggered tooltips and modals.
func (e *nodeElement) Hover(ctx context.Context) error {
	err := chromedp.Run(e.tab.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		box, err := dom.GetBoxModel().WithNodeID(e.node.NodeID).Do(ctx)
		if err != nil {
			return err
		}
		if len(box.Content) < 8 {
			return fmt.Errorf("node has no box model")
		}
		x := (box.Content[0] + box.Content[2]) / 2
		y := (box.Content[1] + box.Content[5]) / 2
		return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("hover failed: %w", err)
	}
	return nil
}

func (e *nodeElement) ScrollIntoView(ctx context.Context) error {
	err := chromedp.Run(e.tab.ctx,
		chromedp.ScrollIntoView([]cdp.NodeID{e.node.NodeID}, chromedp.ByNodeID),
	)
	if err != nil {
		return fmt.Errorf("scroll into view failed: %w", err)
	}
	return nil
}

func (e *nodeElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	var value string
	var ok bool
	err := chromedp.Run(e.tab.ctx,
		chromedp.AttributeValue([]cdp.NodeID{e.node.NodeID}, name, &value, &ok, chromedp.ByNodeID),
	)
	if err != nil {
		return "", false, fmt.Errorf("failed to read attribute %q: %w", name, err)
	}
	return value, ok, nil
}

func (e *nodeElement) HTML(ctx context.Context) (string, error) {
	var html string
	err := chromedp.Run(e.tab.ctx,
		chromedp.OuterHTML([]cdp.NodeID{e.node.NodeID}, &html, chromedp.ByNodeID),
	)
	if err != nil {
		return "", fmt.Errorf("failed to read node HTML: %w", err)
	}
	return html, nil
}

func (e *nodeElement) Query(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := chromedp.Run(e.tab.ctx,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.FromNode(e.node), chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, fmt.Errorf("descendant query failed for %q: %w", selector, err)
	}

	elements := make([]Element, 0, len(nodes))
	for _, node := range nodes {
		elements = append(elements, &nodeElement{tab: e.tab, node: node})
	}
	return elements, nil
}
