// Package handler implements the API routes of the camera node.
package handler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmbx/vmbx/apitypes"
	"github.com/vmbx/vmbx/internal/server/api"
	apierror "github.com/vmbx/vmbx/internal/server/api/error"
	"github.com/vmbx/vmbx/vmb"
)

// decode parses a JSON payload into T.
func decode[T any](payload string) (T, error) {
	var v T
	if strings.TrimSpace(payload) == "" {
		return v, apierror.ErrBadRequest("missing payload")
	}
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return v, apierror.ErrBadRequest(fmt.Sprintf("invalid payload: %v", err))
	}
	return v, nil
}

// featureName accepts either {"name":"Width"} or the bare feature name.
func featureName(payload string) (string, error) {
	p := strings.TrimSpace(payload)
	if p != "" && !strings.HasPrefix(p, "{") {
		return p, nil
	}
	req, err := decode[apitypes.FeatureRequest](p)
	if err != nil {
		return "", err
	}
	if req.Name == "" {
		return "", apierror.ErrBadRequest("missing feature name")
	}
	return req.Name, nil
}

// named decodes a request carrying a feature name and checks it is set.
func named[T any](payload string, name func(T) string) (T, error) {
	req, err := decode[T](payload)
	if err != nil {
		return req, err
	}
	if name(req) == "" {
		return req, apierror.ErrBadRequest("missing feature name")
	}
	return req, nil
}

func reply(res *api.Response, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return apierror.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
	}
	res.JSON = string(payload)
	return nil
}

func featureInfo(fi vmb.FeatureInfo) apitypes.FeatureInfo {
	return apitypes.FeatureInfo{
		Name:                fi.Name,
		Category:            fi.Category,
		DisplayName:         fi.DisplayName,
		Description:         fi.Description,
		SFNCNamespace:       fi.SFNCNamespace,
		Unit:                fi.Unit,
		Representation:      fi.Representation,
		Type:                fi.DataType.String(),
		Readable:            fi.Flags.Has(vmb.FeatureFlagsRead),
		Writable:            fi.Flags.Has(vmb.FeatureFlagsWrite),
		Volatile:            fi.Flags.Has(vmb.FeatureFlagsVolatile),
		Streamable:          fi.IsStreamable,
		HasSelectedFeatures: fi.HasSelectedFeatures,
	}
}
