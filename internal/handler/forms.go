// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/olegiv/oblog/internal/service"
)

// formValidator reports errors under the form field names, not the Go ones.
var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// PostForm is the create/edit post form.
type PostForm struct {
	Title    string `form:"title" validate:"required,max=250"`
	Subtitle string `form:"subtitle" validate:"required,max=250"`
	ImgURL   string `form:"img_url" validate:"required,http_url,max=2048"`
	Body     string `form:"body" validate:"required"`
}

// RegisterForm is the sign-up form.
type RegisterForm struct {
	Email    string `form:"email" validate:"required,email,max=100"`
	Password string `form:"password" validate:"required,min=8,max=128"`
	Name     string `form:"name" validate:"required,max=100"`
}

// LoginForm is the login form.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// CommentForm is the add/edit comment form.
type CommentForm struct {
	Text string `form:"text" validate:"required,max=5000"`
}

func postFormFrom(r *http.Request) PostForm {
	return PostForm{
		Title:    strings.TrimSpace(r.PostFormValue("title")),
		Subtitle: strings.TrimSpace(r.PostFormValue("subtitle")),
		ImgURL:   strings.TrimSpace(r.PostFormValue("img_url")),
		Body:     strings.TrimSpace(r.PostFormValue("body")),
	}
}

func registerFormFrom(r *http.Request) RegisterForm {
	return RegisterForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Name:     strings.TrimSpace(r.PostFormValue("name")),
	}
}

func loginFormFrom(r *http.Request) LoginForm {
	return LoginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
}

func commentFormFrom(r *http.Request) CommentForm {
	return CommentForm{Text: strings.TrimSpace(r.PostFormValue("text"))}
}

// validateForm checks form against its validate tags and returns one message
// per failing field, or nil when the form is valid.
func validateForm(form any) map[string]string {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string]string{"form": MsgInvalidForm}
	}

	errs := make(map[string]string, len(ve))
	for _, fe := range ve {
		if _, seen := errs[fe.Field()]; !seen {
			errs[fe.Field()] = fieldError(fe)
		}
	}
	return errs
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "http_url":
		return field + " must be an http or https URL"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// validationErrors turns a service validation error into form errors.
func validationErrors(err error) (map[string]string, bool) {
	var vErr *service.ValidationError
	if !errors.As(err, &vErr) {
		return nil, false
	}
	label := strings.ReplaceAll(vErr.Field, "_", " ")
	return map[string]string{vErr.Field: label + " " + vErr.Message}, true
}

// firstError picks one message from errs for a flash, capitalised. Fields
// are visited in name order so the choice is stable.
func firstError(errs map[string]string) string {
	if len(errs) == 0 {
		return MsgInvalidForm
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	msg := errs[keys[0]]
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:] + "."
}
