package types

// UserInfo is the profile record of the signed-in user, exactly as the
// marketplace API returns it. No shape is enforced beyond being a JSON object.
type UserInfo map[string]any

// Name returns the most human-friendly identifier present in the record:
// nickname, then user_name, then empty.
func (u UserInfo) Name() string {
	for _, key := range []string{"nickname", "user_name"} {
		if v, ok := u[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// UserUpdate is the body of updateUserInfo. The API overwrites every field,
// so callers should send the full profile.
type UserUpdate struct {
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
	Phone     string `json:"phone"`
	Intro     string `json:"intro"`
}

// Credentials is the body of login and register.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
