package socialite

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"social_auth/dto"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v3/userinfo"
	githubUserInfoURL   = "https://api.github.com/user"
	facebookUserInfoURL = "https://graph.facebook.com/v3.3/me"
)

func NewGoogle(cfg Config, opts ...Option) Provider {
	return newDriver("google", cfg, google.Endpoint, []string{"openid", "profile", "email"}, googleUserInfoURL, googleProfile, opts)
}

func NewGitHub(cfg Config, opts ...Option) Provider {
	return newDriver("github", cfg, github.Endpoint, []string{"user:email"}, githubUserInfoURL, githubProfile, opts)
}

func NewFacebook(cfg Config, opts ...Option) Provider {
	return newDriver("facebook", cfg, facebook.Endpoint, []string{"email"}, facebookUserInfoURL, facebookProfile, opts)
}

type googleClaims struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func googleProfile(ctx context.Context, d *driver, client *http.Client, token *oauth2.Token) (*dto.RemoteIdentity, error) {
	var claims googleClaims
	rawIDToken, _ := token.Extra("id_token").(string)
	if d.verifier != nil && rawIDToken != "" {
		idToken, err := d.verifier.Verify(ctx, rawIDToken)
		if err != nil {
			return nil, fmt.Errorf("verify id_token: %w", err)
		}
		if err := idToken.Claims(&claims); err != nil {
			return nil, fmt.Errorf("decode id_token claims: %w", err)
		}
	} else if err := getJSON(ctx, client, d.profileURL(nil), &claims); err != nil {
		return nil, err
	}

	return &dto.RemoteIdentity{
		ID:     claims.Sub,
		Email:  claims.Email,
		Name:   claims.Name,
		Avatar: claims.Picture,
	}, nil
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func githubProfile(ctx context.Context, d *driver, client *http.Client, _ *oauth2.Token) (*dto.RemoteIdentity, error) {
	var user githubUser
	if err := getJSON(ctx, client, d.profileURL(nil), &user); err != nil {
		return nil, err
	}

	email := user.Email
	// private addresses are only listed by the emails endpoint
	if email == "" {
		var emails []githubEmail
		if err := getJSON(ctx, client, strings.TrimRight(d.userInfoURL, "/")+"/emails", &emails); err == nil {
			for _, e := range emails {
				if e.Primary && e.Verified {
					email = e.Email
					break
				}
			}
		}
	}

	identity := &dto.RemoteIdentity{
		Email:    email,
		Name:     user.Name,
		Nickname: user.Login,
		Avatar:   user.AvatarURL,
	}
	if user.ID != 0 {
		identity.ID = strconv.FormatInt(user.ID, 10)
	}
	return identity, nil
}

type facebookUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

func facebookProfile(ctx context.Context, d *driver, client *http.Client, _ *oauth2.Token) (*dto.RemoteIdentity, error) {
	var user facebookUser
	if err := getJSON(ctx, client, d.profileURL([]string{"name", "email", "picture"}), &user); err != nil {
		return nil, err
	}

	avatar := user.Picture.Data.URL
	if avatar == "" && user.ID != "" {
		avatar = "https://graph.facebook.com/v3.3/" + user.ID + "/picture?type=normal"
	}
	return &dto.RemoteIdentity{
		ID:     user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Avatar: avatar,
	}, nil
}
