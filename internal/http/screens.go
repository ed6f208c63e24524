package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Screen routes of the bottom navigation, in display order.
const (
	RouteHome     = "Home"
	RouteExplore  = "Explore"
	RouteMyList   = "MyList"
	RouteDownload = "Download"
	RouteProfile  = "Profile"
)

type navItem struct {
	Route string `json:"route"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var bottomBar = []navItem{
	{Route: RouteHome, Label: "Home", Icon: "home"},
	{Route: RouteExplore, Label: "Explore", Icon: "explore"},
	{Route: RouteMyList, Label: "My List", Icon: "bookmark"},
	{Route: RouteDownload, Label: "Download", Icon: "file_download"},
	{Route: RouteProfile, Label: "Profile", Icon: "person"},
}

type searchField struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
}

type filterSheet struct {
	Title    string   `json:"title"`
	Sections []string `json:"sections"`
	Actions  []string `json:"actions"`
}

type topBar struct {
	Title          string       `json:"title"`
	NavigationIcon string       `json:"navigationIcon,omitempty"`
	Search         *searchField `json:"search,omitempty"`
	Actions        []string     `json:"actions"`
	Filter         *filterSheet `json:"filter,omitempty"`
	Transparent    bool         `json:"transparent"`
}

type screenResponse struct {
	Route  string      `json:"route"`
	TopBar topBar      `json:"topBar"`
	State  interface{} `json:"state"`
}

// chromeFor returns the top bar of route. Unknown routes get the home chrome.
func chromeFor(route, search string) topBar {
	switch route {
	case RouteExplore:
		return topBar{
			Search:  &searchField{Label: "Search", Value: search, Icon: "search"},
			Actions: []string{"tune"},
			Filter: &filterSheet{
				Title:    "Sort & Filter",
				Sections: []string{"Categories", "Regions", "Genre", "Time/Periods", "Sort"},
				Actions:  []string{"Reset", "Apply"},
			},
		}
	case RouteMyList:
		return topBar{Title: "My List", NavigationIcon: "movie", Actions: []string{"search"}, Transparent: true}
	case RouteDownload:
		return topBar{Title: "Download", NavigationIcon: "movie", Actions: []string{"search"}, Transparent: true}
	case RouteProfile:
		return topBar{Title: "Profile", NavigationIcon: "movie", Actions: []string{}, Transparent: true}
	default:
		return topBar{NavigationIcon: "movie", Actions: []string{"search", "notifications"}, Transparent: true}
	}
}

func knownRoute(route string) bool {
	for _, item := range bottomBar {
		if item.Route == route {
			return true
		}
	}
	return false
}

func (s *Server) handleBottomBar(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"items": bottomBar})
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	route := chi.URLParam(r, "route")
	if !knownRoute(route) {
		route = RouteHome
	}

	var search string
	if s.explore != nil {
		search = s.explore.SearchField()
	}
	s.respondJSON(w, http.StatusOK, screenResponse{
		Route:  route,
		TopBar: chromeFor(route, search),
		State:  s.screenState(route),
	})
}

func (s *Server) screenState(route string) interface{} {
	switch route {
	case RouteExplore:
		return s.exploreState()
	case RouteMyList:
		return s.myListState()
	case RouteDownload:
		return downloadState()
	case RouteProfile:
		return s.home.ProfileInfo()
	default:
		return s.homeState()
	}
}
