// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration parsing from CLI flags and
environment variables.

Configuration is resolved once at startup into an explicit Config struct
that is passed to every component; there are no ambient globals. Flags win
over environment variables, and required secrets (SECRET_KEY,
ADMIN_API_KEY) abort startup when absent.

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

# Settings

Required:

  - DATABASE_URL (-d): Postgres connection string or SQLite path
  - SECRET_KEY (--secret-key): HMAC secret for verification/session tokens
  - ADMIN_API_KEY (--admin-key): shared key for the admin surface

Optional:

  - PORT (-p): server port (default 8000)
  - DATABASE_TYPE (-t): sqlite or postgres (default sqlite)
  - BASE_URL (--base-url): origin for verification links
  - EMAIL_PATTERN (--email-pattern): membership substrings (default "sias,krea.ac.in")
  - COOL_DOWN_DAYS (--cool-down-days): re-vote lockout (default 180)
  - SMTP_HOST/SMTP_PORT/SMTP_USERNAME/SMTP_PASSWORD: real email delivery
*/
package cliparse
