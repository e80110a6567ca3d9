package handler

// Route paths.
const (
	RouteRoot          = "/"
	RouteAbout         = "/about"
	RouteHealth        = "/health"
	RouteMetrics       = "/metrics"
	RoutePost          = "/post"
	RoutePostBySlug    = "/posts/{slug}"
	RouteNewPost       = "/new-post"
	RouteEditPost      = "/edit/{id}"
	RouteDeletePost    = "/delete"
	RouteEditComment   = "/edit_comment"
	RouteDeleteComment = "/delete_comment"
	RouteRegister      = "/register"
	RouteLogin         = "/login"
	RouteLogout        = "/logout"
	RouteStatic        = "/static/*"
)

// Query parameters.
const (
	ParamPostID    = "post_id"
	ParamCommentID = "comment_id"
)

// Template names.
const (
	templateIndex       = "blog/index"
	templatePost        = "blog/post"
	templateMakePost    = "blog/make_post"
	templateEditComment = "blog/edit_comment"
	templateAbout       = "blog/about"
	templateLogin       = "auth/login"
	templateRegister    = "auth/register"
	templateError       = "errors/error"
)

// User-facing messages.
const (
	MsgAlreadyRegistered  = "You've already signed up with that email, log in instead!"
	MsgInvalidCredentials = "Invalid email or password, please try again."
	MsgInvalidForm        = "Invalid form data."
	MsgNotCommentAuthor   = "You can only edit your own comments."
	MsgCannotDelete       = "You can only delete your own comments."
	MsgAdminOnly          = "Only the blog administrator can manage posts."
)
