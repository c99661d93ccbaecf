// Package main provides the entry point of EstateCMS, the website and
// content management system of a property developer. It serves the public
// site with projects, units, news and campaign landing pages, a REST API
// and the admin dashboard from one Fiber web server. Content is stored
// through GORM in SQLite, MySQL or PostgreSQL, and images are uploaded to
// Cloudinary or the local disk.
package main
