package user

// Token columns never leave the repository through these projections.
const (
	selectUser = `
		SELECT u.id, u.nombre, u.apellido, u.correo, u.documento, u.id_tipo_documento, u.id_rol, u.id_estado, u.contrasena,
		       COALESCE(td.nombre, ''), COALESCE(r.nombre, ''), COALESCE(e.nombre, '')
		FROM usuarios u
		LEFT JOIN tipos_documento td ON td.id = u.id_tipo_documento
		LEFT JOIN roles r ON r.id = u.id_rol
		LEFT JOIN estados e ON e.id = u.id_estado
	`

	SelectUsers                 = selectUser + `ORDER BY u.id`
	SelectUserByID              = selectUser + `WHERE u.id = $1`
	SelectUserByDocumento       = selectUser + `WHERE u.documento = $1`
	SelectActiveUserByDocumento = selectUser + `WHERE u.documento = $1 AND u.id_estado = $2`
	SelectUserByEmail           = selectUser + `WHERE u.correo = $1`
	SearchUsers                 = selectUser + `
		WHERE u.nombre ILIKE $1 OR u.apellido ILIKE $1 OR u.correo ILIKE $1 OR u.documento ILIKE $1
		ORDER BY u.id
	`

	InsertUser = `
		INSERT INTO usuarios (nombre, apellido, correo, documento, id_tipo_documento, id_rol, contrasena, id_estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	UpdateUserByID = `
		WITH u AS (
			UPDATE usuarios
			SET nombre = $1,
			    apellido = $2,
			    correo = $3,
			    documento = $4,
			    id_tipo_documento = $5,
			    id_rol = $6,
			    id_estado = $7
			WHERE id = $8
			RETURNING id, nombre, apellido, correo, documento, id_tipo_documento, id_rol, id_estado, contrasena
		)
		SELECT u.id, u.nombre, u.apellido, u.correo, u.documento, u.id_tipo_documento, u.id_rol, u.id_estado, u.contrasena,
		       COALESCE(td.nombre, ''), COALESCE(r.nombre, ''), COALESCE(e.nombre, '')
		FROM u
		LEFT JOIN tipos_documento td ON td.id = u.id_tipo_documento
		LEFT JOIN roles r ON r.id = u.id_rol
		LEFT JOIN estados e ON e.id = u.id_estado
	`
	UpdatePasswordByID = `UPDATE usuarios SET contrasena = $1 WHERE id = $2`
	DeleteUserByID     = `DELETE FROM usuarios WHERE id = $1`

	SetRecoveryTokenByID = `
		UPDATE usuarios
		SET token_recuperacion = $1,
		    expira_token = $2
		WHERE id = $3
	`
	SelectIDByRecoveryToken = `
		SELECT id FROM usuarios
		WHERE token_recuperacion = $1 AND expira_token > $2
	`
	ResetPasswordByID = `
		UPDATE usuarios
		SET contrasena = $1,
		    token_recuperacion = NULL,
		    expira_token = NULL
		WHERE id = $2 AND token_recuperacion = $3 AND expira_token > $4
	`
)
