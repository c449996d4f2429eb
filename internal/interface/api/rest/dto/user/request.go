package user

type (
	RegisterRequest struct {
		Login    string  `json:"login"`
		Password string  `json:"password"`
		Name     string  `json:"name"`
		Gender   *int    `json:"gender"`
		Birthday *string `json:"birthday"`
		Admin    bool    `json:"admin"`
	}

	ChangeProfileRequest struct {
		Name     *string `json:"name"`
		Gender   *int    `json:"gender"`
		Birthday *string `json:"birthday"`
	}

	ChangePasswordRequest struct {
		Password string `json:"password"`
	}

	ChangeLoginRequest struct {
		Login string `json:"login"`
	}
)
