package request

type RegisterRequest struct {
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required,min=6"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token so the whole pair can
// be revoked in one call.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest carries the editable attribute set. Everything is
// optional; only provided fields are applied.
type UpdateProfileRequest struct {
	GithubName      *string `json:"github_name"`
	RealName        *string `json:"real_name"`
	City            *string `json:"city"`
	Company         *string `json:"company"`
	TwitterAccount  *string `json:"twitter_account"`
	PersonalWebsite *string `json:"personal_website" binding:"omitempty,url"`
	Introduction    *string `json:"introduction"`
	WeiboName       *string `json:"weibo_name"`
	WeiboID         *string `json:"weibo_id"`
}

// Fields flattens the request into the partial-update map the DAO expects.
func (r *UpdateProfileRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	put := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	put("github_name", r.GithubName)
	put("real_name", r.RealName)
	put("city", r.City)
	put("company", r.Company)
	put("twitter_account", r.TwitterAccount)
	put("personal_website", r.PersonalWebsite)
	put("introduction", r.Introduction)
	put("weibo_name", r.WeiboName)
	put("weibo_id", r.WeiboID)
	return fields
}
