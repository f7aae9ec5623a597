package urlparser

import (
	"errors"
	"strings"
)

type PathParams struct {
	Resource string
	Id       string
	Sub      string
	SubId    string
}

// ParsePath splits a till path of the form /{resource}[/{id}[/{sub}[/{subId}]]].
func ParsePath(path string) (PathParams, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return PathParams{}, errors.New("wrong url format")
	}
	parts := strings.Split(trimmed, "/")

	for _, p := range parts {
		if p == "" {
			return PathParams{}, errors.New("wrong url format, empty segment")
		}
	}

	params := PathParams{Resource: parts[0]}

	switch len(parts) {
	case 1:
		return params, nil
	case 2:
		params.Id = parts[1]
		return params, nil
	case 3:
		params.Id = parts[1]
		params.Sub = parts[2]
		return params, nil
	case 4:
		params.Id = parts[1]
		params.Sub = parts[2]
		params.SubId = parts[3]
		return params, nil
	default:
		return PathParams{}, errors.New("wrong url format")
	}
}

// ParseProductPath expects /products/{id}.
func ParseProductPath(path string) (string, error) {
	params, err := ParsePath(path)
	if err != nil {
		return "", err
	}
	if params.Resource != "products" || params.Id == "" || params.Sub != "" {
		return "", errors.New("invalid path, expected /products/{id}")
	}
	return params.Id, nil
}

// ParseCartItemPath expects /cart/items/{productId}.
func ParseCartItemPath(path string) (string, error) {
	params, err := ParsePath(path)
	if err != nil {
		return "", err
	}
	if params.Resource != "cart" || params.Id != "items" || params.Sub == "" || params.SubId != "" {
		return "", errors.New("invalid path, expected /cart/items/{productId}")
	}
	return params.Sub, nil
}
