package catalog

import (
	"strings"

	"github.com/alrazi/medstock/internal/shared"
)

func (s *Service) validateCreate(in *CreateItemInput) error {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.Category = orDefault(in.Category, DefaultCategory)
	in.Unit = orDefault(in.Unit, DefaultUnit)
	return shared.ValidateStruct(s.validate, in)
}

func (s *Service) validateUpdate(in *UpdateItemInput) error {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.Category = orDefault(in.Category, DefaultCategory)
	in.Unit = orDefault(in.Unit, DefaultUnit)
	return shared.ValidateStruct(s.validate, in)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
