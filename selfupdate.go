package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/minio/selfupdate"
	"github.com/ulikunitz/xz"
	"golang.org/x/mod/semver"
)

var githubAPI = "https://api.github.com"

var updateClient = &http.Client{Timeout: 60 * time.Second}

// latestRelease returns the name of the latest GitHub release of repo.
func latestRelease(client *http.Client, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", githubAPI, repo)
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub API returned HTTP %d", resp.StatusCode)
	}

	var release struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("parse release info: %w", err)
	}
	if !semver.IsValid(release.Name) {
		return "", fmt.Errorf("latest release %q is not a semantic version", release.Name)
	}
	return release.Name, nil
}

// releaseAssetURL builds the download URL of the xz-compressed binary for a platform.
func releaseAssetURL(repo, tag, goos, goarch string) string {
	ext := "xz"
	if goos == "windows" {
		ext = "exe.xz"
	}
	return fmt.Sprintf("https://github.com/%s/releases/download/%s/icogen-%s-%s.%s",
		repo, tag, goos, goarch, ext)
}

// selfUpdate replaces the running binary with the latest release, if newer.
func selfUpdate() {
	if err := runSelfUpdate(updateClient); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func runSelfUpdate(client *http.Client) error {
	fmt.Printf("Current version: %s-%s\n", Version, CommitHash)

	latest, err := latestRelease(client, GithubRepo)
	if err != nil {
		return err
	}
	fmt.Printf("Latest release: %s\n", latest)

	switch semver.Compare(latest, Version) {
	case -1:
		fmt.Println("You have a newer version than the latest release.")
		return nil
	case 0:
		fmt.Println("Already up to date.")
		return nil
	}
	fmt.Println("New version available, upgrading...")
	if Version == "v0.0.0" {
		fmt.Print("Development build detected, press Enter to proceed: ")
		bufio.NewReader(os.Stdin).ReadBytes('\n')
	}

	downloadURL := releaseAssetURL(GithubRepo, latest, runtime.GOOS, runtime.GOARCH)

	opts := selfupdate.Options{}
	if err := opts.CheckPermissions(); err != nil {
		fmt.Printf("Cannot update in place (permission denied).\nDownload manually: %s\n", downloadURL)
		return nil
	}

	fmt.Printf("Downloading %s...\n", downloadURL)
	resp, err := client.Get(downloadURL)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned HTTP %d", resp.StatusCode)
	}

	r, err := xz.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("xz decompression failed: %w", err)
	}

	if err := selfupdate.Apply(r, opts); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Printf("Updated to %s successfully.\n", latest)
	return nil
}
