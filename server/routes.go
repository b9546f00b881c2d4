package server

import (
	"net/http"
	"regexp"

	"github.com/vintegcorp/vintegcorp/validation"
)

// handlerFunc handles a matched route. params holds the pattern's capture groups.
type handlerFunc func(w http.ResponseWriter, r *http.Request, params []string) error

type route struct {
	method    string
	pattern   *regexp.Regexp
	handler   handlerFunc
	auth      bool
	body      validation.Binder
	usesStore bool
}

// RouteInfo describes a registered route
type RouteInfo struct {
	Method    string
	Pattern   string
	Auth      bool
	Body      string
	UsesStore bool
}

type routeOption func(*route)

// bearer requires a valid session token
func bearer() routeOption {
	return func(rt *route) { rt.auth = true }
}

// validated checks the request body with b before the handler runs
func validated(b validation.Binder) routeOption {
	return func(rt *route) { rt.body = b }
}

// noStore marks a route that works without a database
func noStore() routeOption {
	return func(rt *route) { rt.usesStore = false }
}

func (s *Server) register(method, pattern string, h handlerFunc, options ...routeOption) {
	rt := &route{
		method:    method,
		pattern:   regexp.MustCompile(pattern),
		handler:   h,
		usesStore: true,
	}
	for _, opt := range options {
		opt(rt)
	}
	s.routes = append(s.routes, rt)
}

// initRoutes builds the route table. Order matters: the first match wins.
func (s *Server) initRoutes() {
	s.register(http.MethodGet, RouteHealth, s.handleHealth, noStore())

	// AUTH
	s.register(http.MethodPost, RouteLogin, s.handleLogin, validated(validation.Login))
	s.register(http.MethodPost, RouteChangePassword, s.handleChangePassword, bearer(), validated(validation.ChangePassword))

	// USERS
	s.register(http.MethodGet, RouteUsers, s.handleListUsers, bearer())
	s.register(http.MethodPost, RouteUsers, s.handleCreateUser, bearer(), validated(validation.User))
	s.register(http.MethodPatch, RouteUser, s.handleUpdateUser, bearer(), validated(validation.UserPatch))
	s.register(http.MethodDelete, RouteUser, s.handleDeleteUser, bearer())

	// PROJECTS
	s.register(http.MethodGet, RouteProjects, s.handleListProjects, bearer())
	s.register(http.MethodPost, RouteProjects, s.handleCreateProject, bearer(), validated(validation.Project))
	s.register(http.MethodDelete, RouteProject, s.handleDeleteProject, bearer())

	// TASKS
	s.register(http.MethodGet, RouteTasks, s.handleListTasks, bearer())
	s.register(http.MethodPost, RouteTasks, s.handleCreateTask, bearer(), validated(validation.Task))
	s.register(http.MethodPatch, RouteTask, s.handleUpdateTask, bearer(), validated(validation.TaskPatch))
	s.register(http.MethodDelete, RouteTask, s.handleDeleteTask, bearer())

	// ARTICLES
	s.register(http.MethodGet, RouteArticles, s.handleListArticles, bearer())
	s.register(http.MethodPost, RouteArticles, s.handleCreateArticle, bearer(), validated(validation.Article))
	s.register(http.MethodPatch, RouteArticle, s.handleUpdateArticle, bearer(), validated(validation.ArticlePatch))
	s.register(http.MethodDelete, RouteArticle, s.handleDeleteArticle, bearer())

	// ANNOUNCEMENTS
	s.register(http.MethodGet, RouteAnnouncements, s.handleListAnnouncements, bearer())
	s.register(http.MethodPost, RouteAnnouncements, s.handleCreateAnnouncement, bearer(), validated(validation.Announcement))
	s.register(http.MethodDelete, RouteAnnouncement, s.handleDeleteAnnouncement, bearer())
	s.register(http.MethodPost, RouteAnnouncementLike, s.handleLikeAnnouncement, bearer())
	s.register(http.MethodPost, RouteAnnouncementComments, s.handleCommentAnnouncement, bearer(), validated(validation.Comment))
	s.register(http.MethodPost, RouteAnnouncementRead, s.handleReadAnnouncement, validated(validation.ReadReceipt))

	// FEED
	s.register(http.MethodGet, RouteFeed, s.handleListFeed, bearer())
	s.register(http.MethodPost, RouteFeed, s.handleCreateFeedPost, bearer(), validated(validation.FeedPost))
	s.register(http.MethodPost, RouteFeedLike, s.handleLikeFeedPost, bearer())
	s.register(http.MethodPost, RouteFeedComments, s.handleCommentFeedPost, bearer(), validated(validation.Comment))

	// DOCUMENTS
	s.register(http.MethodGet, RouteDocuments, s.handleListDocuments, bearer())
	s.register(http.MethodGet, RouteDocument, s.handleGetDocument, bearer())
	s.register(http.MethodPost, RouteDocuments, s.handleCreateDocument, bearer(), validated(validation.Document))
	s.register(http.MethodDelete, RouteDocument, s.handleDeleteDocument, bearer())
}

// Routes lists the route table in match order
func (s *Server) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(s.routes))
	for _, rt := range s.routes {
		info := RouteInfo{
			Method:    rt.method,
			Pattern:   rt.pattern.String(),
			Auth:      rt.auth,
			UsesStore: rt.usesStore,
		}
		if rt.body != nil {
			info.Body = rt.body.Name()
		}
		out = append(out, info)
	}
	return out
}
