package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

const githubAPIBase = "https://api.github.com"

// GetGithubRepos proxies the five most recently created public repos for a
// GitHub username.
func (h *Handler) GetGithubRepos(c *gin.Context) {
	username := c.Param("username")

	ctx, cancel := requestContext()
	defer cancel()

	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc", githubAPIBase, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		serverError(c, "GetGithubRepos", err)
		return
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if h.cfg.GithubToken != "" {
		req.Header.Set("Authorization", "Bearer "+h.cfg.GithubToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		serverError(c, "GetGithubRepos", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		respondError(c, http.StatusNotFound, "No GitHub profile found")
		return
	}
	if resp.StatusCode != http.StatusOK {
		serverError(c, "GetGithubRepos", fmt.Errorf("github responded %d", resp.StatusCode))
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		serverError(c, "GetGithubRepos", err)
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
