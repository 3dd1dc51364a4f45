package store

// userColumns is the canonical column list of the "users" table, in the
// order every scanUser call expects.
const userColumns = `user_id, username, password_hash, first_name, last_name, email, role, is_active, is_verified, login_attempts, locked_until, password_reset_token, password_reset_expiry, password_reset_otp, password_reset_otp_expiry, created_at`

const (
	createUser = `INSERT INTO users (username, password_hash, first_name, last_name, email, role, is_active, is_verified)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING ` + userColumns + `;`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE user_id = $1;`

	findUserByUsername = `SELECT ` + userColumns + `
    FROM users
    WHERE username = $1;`

	findUserByResetToken = `SELECT ` + userColumns + `
    FROM users
    WHERE password_reset_token = $1 AND password_reset_expiry >= $2;`

	findUserByEmailAndOTP = `SELECT ` + userColumns + `
    FROM users
    WHERE lower(email) = lower($1) AND password_reset_otp = $2;`

	// recordFailedLogin is the lockout CAS: one statement increments the
	// counter and locks the account when the incremented value reaches the
	// threshold. The WHERE guard on locked_until keeps a concurrent lock
	// from being extended or double-counted.
	recordFailedLogin = `UPDATE users
    SET login_attempts = login_attempts + 1,
        locked_until = CASE WHEN login_attempts + 1 >= $2 THEN $3 ELSE locked_until END
    WHERE user_id = $1 AND (locked_until IS NULL OR locked_until <= $4)
    RETURNING login_attempts, locked_until;`

	resetLoginAttempts = `UPDATE users
    SET login_attempts = 0, locked_until = NULL
    WHERE user_id = $1;`

	setResetToken = `UPDATE users
    SET password_reset_token = $2, password_reset_expiry = $3
    WHERE user_id = $1;`

	setResetOTP = `UPDATE users
    SET password_reset_otp = $2, password_reset_otp_expiry = $3
    WHERE user_id = $1;`

	// resetPasswordByToken re-checks the token and its expiry at mutation
	// time, so a token consumed by a concurrent reset matches zero rows.
	// Clearing login_attempts and locked_until makes a completed reset also
	// unlock the account.
	resetPasswordByToken = `UPDATE users
    SET password_hash = $1,
        password_reset_token = NULL,
        password_reset_expiry = NULL,
        login_attempts = 0,
        locked_until = NULL
    WHERE password_reset_token = $2 AND password_reset_expiry >= $3
    RETURNING ` + userColumns + `;`

	setPassword = `UPDATE users
    SET password_hash = $2,
        password_reset_token = NULL,
        password_reset_expiry = NULL,
        password_reset_otp = NULL,
        password_reset_otp_expiry = NULL,
        login_attempts = 0,
        locked_until = NULL
    WHERE user_id = $1;`

	setVerified = `UPDATE users
    SET is_verified = TRUE, is_active = TRUE
    WHERE user_id = $1
    RETURNING ` + userColumns + `;`

	toggleActive = `UPDATE users
    SET is_active = NOT is_active
    WHERE user_id = $1
    RETURNING ` + userColumns + `;`

	// purgeExpiredRecoveryArtifacts clears each artifact family independently
	// so that a live OTP survives the purge of an expired link token and
	// vice versa.
	purgeExpiredRecoveryArtifacts = `UPDATE users
    SET password_reset_token = CASE WHEN password_reset_expiry < $1 THEN NULL ELSE password_reset_token END,
        password_reset_expiry = CASE WHEN password_reset_expiry < $1 THEN NULL ELSE password_reset_expiry END,
        password_reset_otp = CASE WHEN password_reset_otp_expiry < $1 THEN NULL ELSE password_reset_otp END,
        password_reset_otp_expiry = CASE WHEN password_reset_otp_expiry < $1 THEN NULL ELSE password_reset_otp_expiry END
    WHERE password_reset_expiry < $1 OR password_reset_otp_expiry < $1;`
)
