package user

const (
	columns = `id, login, password, name, gender, birthday, admin, created_on, created_by, modified_on, modified_by, revoked_on, revoked_by`

	SelectUserByID = `
		SELECT ` + columns + `
		FROM users
		WHERE id = $1
	`
	// a live account wins over revoked ones sharing its login
	SelectUserByLogin = `
		SELECT ` + columns + `
		FROM users
		WHERE login = $1
		ORDER BY (revoked_on IS NOT NULL), created_on DESC
		LIMIT 1
	`
	SelectUserByLoginAndPassword = `
		SELECT ` + columns + `
		FROM users
		WHERE login = $1 AND password = $2
		ORDER BY (revoked_on IS NOT NULL), created_on DESC
		LIMIT 1
	`
	SelectUsers = `
		SELECT ` + columns + `
		FROM users
		ORDER BY created_on
	`
	SelectActiveUsers = `
		SELECT ` + columns + `
		FROM users
		WHERE revoked_on IS NULL
		ORDER BY created_on
	`
	SelectUsersBornBefore = `
		SELECT ` + columns + `
		FROM users
		WHERE birthday IS NOT NULL AND birthday < $1
		ORDER BY created_on
	`
	SelectLiveLoginExists = `
		SELECT EXISTS (SELECT 1 FROM users WHERE login = $1 AND revoked_on IS NULL)
	`
	InsertUser = `
		INSERT INTO users (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	UpdateUserByID = `
		UPDATE users
		SET login = $2,
		    password = $3,
		    name = $4,
		    gender = $5,
		    birthday = $6,
		    admin = $7,
		    modified_on = $8,
		    modified_by = $9,
		    revoked_on = $10,
		    revoked_by = $11
		WHERE id = $1
	`
	DeleteUserByID = `DELETE FROM users WHERE id = $1`
)
