// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify is the email delivery boundary.

The session coordinator depends only on the Notifier interface. Two
implementations exist: LogNotifier (development and tests, logs the link)
and SMTPNotifier (production, plain-auth relay configured from SMTP_*
settings). main picks one based on whether SMTP_HOST is set.
*/
package notify
