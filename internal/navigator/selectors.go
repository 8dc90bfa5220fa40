// internal/navigator/selectors.go
package navigator

// CSS selectors for the odds site's market navigation and odds tables.
// The site ships several markup generations, so tab and overflow
// lookups try a list of selectors in order.
var (
	marketTabSelectors = []string{
		"ul.visible-links.bg-black-main.odds-tabs > li",
		"ul.odds-tabs > li",
		"ul[class*='odds-tabs'] > li",
		"div[class*='odds-tabs'] li",
		"li[class*='tab']",
		"nav li",
	}

	moreButtonSelectors = []string{
		"button.toggle-odds",
		"button[class*='toggle-odds']",
		".visible-btn-odds",
		"li[class*='more']",
		"li button",
		"li a",
	}

	dropdownItemSelectors = []string{
		"li",
		"a",
		"button",
		"div",
		"span",
	}

	activeTabSelectors = []string{
		"li.active",
		"li[class*='active']",
		".active",
	}
)

const (
	subMarketSelector = "div.flex.w-full.items-center.justify-start.pl-3.font-bold p"

	bookmakerRowSelector  = "div.border-black-borders.flex.h-9"
	bookmakerLogoSelector = "img.bookmaker-logo"
	oddsBlockSelector     = "div.flex-center.flex-col.font-bold"

	oddsMovementHeading = "Odds movement"
)
