// internal/scraper/pagination_test.go
package scraper

import (
	"reflect"
	"testing"
)

const paginationHTML = `
<div class="pagination">
  <a class="pagination-link" href="#/page/1/">1</a>
  <a class="pagination-link" href="#/page/2/">2</a>
  <a class="pagination-link" href="#/page/3/">3</a>
  <a class="pagination-link" href="#/page/27/">27</a>
  <a class="pagination-link" rel="next" href="#/page/2/">Next</a>
</div>`

func TestExtractPageNumbers(t *testing.T) {
	pages, err := ExtractPageNumbers(paginationHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []int{1, 2, 3, 27}
	if !reflect.DeepEqual(pages, expected) {
		t.Errorf("expected pages %v, got %v", expected, pages)
	}
}

func TestExtractPageNumbersNoPagination(t *testing.T) {
	pages, err := ExtractPageNumbers(`<div class="content"></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("expected no pages, got %v", pages)
	}
}

func TestPlanPages(t *testing.T) {
	tests := []struct {
		name       string
		discovered []int
		maxPages   int
		expected   []int
	}{
		{
			name:       "fills elided middle pages",
			discovered: []int{1, 2, 3, 10},
			expected:   []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
		{
			name:       "no pagination means one page",
			discovered: nil,
			expected:   []int{1},
		},
		{
			name:       "single page",
			discovered: []int{5},
			expected:   []int{5},
		},
		{
			name:       "maxPages truncates the plan",
			discovered: []int{1, 2, 3, 10},
			maxPages:   2,
			expected:   []int{1, 2},
		},
		{
			name:       "unsorted input",
			discovered: []int{3, 1, 2},
			expected:   []int{1, 2, 3},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := PlanPages(test.discovered, test.maxPages)
			if !reflect.DeepEqual(got, test.expected) {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}
