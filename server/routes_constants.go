package server

// Route patterns. Each capture group becomes a positional handler parameter.
const (
	RouteHealth = `^/api/health$`

	RouteLogin          = `^/api/auth/login$`
	RouteChangePassword = `^/api/auth/change-password$`

	RouteUsers = `^/api/users$`
	RouteUser  = `^/api/users/([^/]+)$`

	RouteProjects = `^/api/projects$`
	RouteProject  = `^/api/projects/([^/]+)$`

	RouteTasks = `^/api/tasks$`
	RouteTask  = `^/api/tasks/([^/]+)$`

	RouteArticles = `^/api/articles$`
	RouteArticle  = `^/api/articles/([^/]+)$`

	RouteAnnouncements        = `^/api/announcements$`
	RouteAnnouncement         = `^/api/announcements/([^/]+)$`
	RouteAnnouncementLike     = `^/api/announcements/([^/]+)/like$`
	RouteAnnouncementComments = `^/api/announcements/([^/]+)/comments$`
	RouteAnnouncementRead     = `^/api/announcements/([^/]+)/read$`

	RouteFeed         = `^/api/feed$`
	RouteFeedLike     = `^/api/feed/([^/]+)/like$`
	RouteFeedComments = `^/api/feed/([^/]+)/comments$`

	RouteDocuments = `^/api/documents$`
	RouteDocument  = `^/api/documents/([^/]+)$`
)

// List sizes per collection
const (
	limitProjects      = 100
	limitTasks         = 500
	limitArticles      = 200
	limitAnnouncements = 50
	limitFeed          = 50
	limitDocuments     = 200
)
