package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"comforttech.in/ac-web/internal/cms"
	mw "comforttech.in/ac-web/internal/middleware"
	"comforttech.in/ac-web/internal/observability"
)

// ContentPageHandler renders a markdown page from the content directory.
func (s *server) ContentPageHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	page, err := s.content.Page(r.Context(), slug)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			mw.WriteError(w, r, http.StatusNotFound, "Page not found")
			return
		}
		observability.FromContext(r.Context()).Error("content page", zap.String("slug", slug), zap.Error(err))
		mw.WriteError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	title := page.Title
	if page.SEO.Title != "" {
		title = page.SEO.Title
	}
	vm := s.basePage(r, title, page.Summary)
	if page.SEO.Description != "" {
		vm.SEO.Description = page.SEO.Description
		vm.SEO.OG.Description = page.SEO.Description
	}
	if page.SEO.OGImage != "" {
		vm.SEO.OG.Image = s.absURL(page.SEO.OGImage)
		vm.SEO.Twitter.Image = vm.SEO.OG.Image
	}
	vm.Content = &page
	s.renderPage(w, r, http.StatusOK, "content", vm)
}
