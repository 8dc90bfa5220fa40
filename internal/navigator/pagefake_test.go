// internal/navigator/pagefake_test.go
package navigator

import (
	"context"
	"fmt"
	"time"

	"oddscrawler/internal/browser"
)

// fastTiming keeps navigator waits negligible in tests.
func fastTiming() Timing {
	return Timing{
		SwitchWait:     time.Millisecond,
		SwitchAttempts: 1,
		ModalWait:      time.Millisecond,
		PageLoadWait:   time.Millisecond,
	}
}

type fakeElement struct {
	text          string
	attrs         map[string]string
	children      map[string][]browser.Element
	onClick       func()
	onClickParent func()
	clicked       int
	hovered       int
}

func (e *fakeElement) Text(ctx context.Context) (string, error) { return e.text, nil }

func (e *fakeElement) Click(ctx context.Context) error {
	e.clicked++
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeElement) ClickParent(ctx context.Context) error {
	if e.onClickParent != nil {
		e.onClickParent()
	}
	return nil
}

func (e *fakeElement) Hover(ctx context.Context) error {
	e.hovered++
	return nil
}

func (e *fakeElement) ScrollIntoView(ctx context.Context) error { return nil }

func (e *fakeElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	value, ok := e.attrs[name]
	return value, ok, nil
}

func (e *fakeElement) HTML(ctx context.Context) (string, error) { return "", nil }

func (e *fakeElement) Query(ctx context.Context, selector string) ([]browser.Element, error) {
	return e.children[selector], nil
}

type fakePage struct {
	elements map[string][]browser.Element
	htmlFn   func() string
	htmlErr  error
	evalFn   func(script string, out interface{}) error
}

func (p *fakePage) Navigate(ctx context.Context, url string) error { return nil }

func (p *fakePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if _, ok := p.elements[selector]; ok {
		return nil
	}
	return fmt.Errorf("element wait timeout for %q", selector)
}

func (p *fakePage) HTML(ctx context.Context) (string, error) {
	if p.htmlErr != nil {
		return "", p.htmlErr
	}
	if p.htmlFn != nil {
		return p.htmlFn(), nil
	}
	return "", nil
}

func (p *fakePage) Query(ctx context.Context, selector string) ([]browser.Element, error) {
	return p.elements[selector], nil
}

func (p *fakePage) Click(ctx context.Context, selector string) error {
	elements := p.elements[selector]
	if len(elements) == 0 {
		return fmt.Errorf("click failed for %q", selector)
	}
	return elements[0].Click(ctx)
}

func (p *fakePage) Evaluate(ctx context.Context, script string, out interface{}) error {
	if p.evalFn != nil {
		return p.evalFn(script, out)
	}
	return nil
}

func (p *fakePage) Close() error { return nil }
