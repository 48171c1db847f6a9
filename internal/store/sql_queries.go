package store

const (
	createUser = `
		INSERT INTO users (
			username,
			password_hash,
			role,
			created_at,
			last_login,
			login_attempts,
			locked_until
		) VALUES ($1, $2, $3, $4, $5, $6, $7);`

	findUserByUsername = `
		SELECT
			id,
			username,
			password_hash,
			role,
			created_at,
			last_login,
			login_attempts,
			locked_until
		FROM users
		WHERE username = $1;`

	findUserByID = `
		SELECT
			id,
			username,
			password_hash,
			role,
			created_at,
			last_login,
			login_attempts,
			locked_until
		FROM users
		WHERE id = $1;`

	saveUserLoginState = `
		UPDATE users SET
			login_attempts = $1,
			locked_until   = $2,
			last_login     = $3
		WHERE id = $4;`

	countUsers = `SELECT COUNT(*) FROM users;`

	insertTopic = `
		INSERT INTO topics (
			id,
			title,
			category,
			keywords,
			content,
			preview,
			author,
			date,
			views,
			helpful,
			sort_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`

	getTopicByID = `
		SELECT
			id,
			title,
			category,
			keywords,
			content,
			preview,
			author,
			date,
			views,
			helpful
		FROM topics
		WHERE id = $1;`

	nextTopicID = `SELECT COALESCE(MAX(id), 0) + 1 FROM topics;`

	headSortOrder = `SELECT COALESCE(MIN(sort_order), 1) - 1 FROM topics;`

	updateTopicFields = `
		UPDATE topics SET
			title    = $1,
			category = $2,
			keywords = $3,
			content  = $4,
			preview  = $5,
			author   = $6
		WHERE id = $7;`

	incrementTopicViews = `
		UPDATE topics
		SET views = views + 1
		WHERE id = $1;`

	incrementTopicHelpful = `
		UPDATE topics
		SET helpful = helpful + 1
		WHERE id = $1;`

	deleteTopicByID = `DELETE FROM topics WHERE id = $1;`

	topicCategoryStats = `
		SELECT category, COUNT(*) AS count
		FROM topics
		GROUP BY category
		ORDER BY count DESC;`

	countTopics = `SELECT COUNT(*) FROM topics;`

	saveRememberSession = `
		INSERT INTO remember_session (id, user_id, token, created_at, user_agent)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			user_id    = excluded.user_id,
			token      = excluded.token,
			created_at = excluded.created_at,
			user_agent = excluded.user_agent;`

	getRememberSession = `
		SELECT user_id, token, created_at, user_agent
		FROM remember_session
		WHERE id = 1;`

	deleteRememberSession = `DELETE FROM remember_session WHERE id = 1;`
)
