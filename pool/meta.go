package pool

import (
	"strconv"
	"strings"
)

// MetaInfo is derived once from the column schema and is immutable after
// construction.
type MetaInfo struct {
	Columns []Column

	ColumnCount   int
	FeatureCount  int
	BaselineCount int

	HasDocIDs      bool
	HasGroupID     bool
	HasGroupWeight bool
	HasSubgroupID  bool
	HasTimestamp   bool
	HasWeights     bool
}

// NewMetaInfo derives pool metadata from the column schema.
func NewMetaInfo(columns []Column) *MetaInfo {
	m := &MetaInfo{
		Columns:     columns,
		ColumnCount: len(columns),
	}
	for _, c := range columns {
		switch c.Role {
		case RoleNum, RoleCateg:
			m.FeatureCount++
		case RoleBaseline:
			m.BaselineCount++
		case RoleDocID:
			m.HasDocIDs = true
		case RoleGroupID:
			m.HasGroupID = true
		case RoleGroupWeight:
			m.HasGroupWeight = true
			m.HasWeights = true
		case RoleSubgroupID:
			m.HasSubgroupID = true
		case RoleTimestamp:
			m.HasTimestamp = true
		case RoleWeight:
			m.HasWeights = true
		}
	}
	return m
}

// CatFeatureIndices returns the feature-slot indices of categorical columns.
func (m *MetaInfo) CatFeatureIndices() []int {
	var indices []int
	featureID := 0
	for _, c := range m.Columns {
		if !c.Role.IsFeature() {
			continue
		}
		if c.Role == RoleCateg {
			indices = append(indices, featureID)
		}
		featureID++
	}
	return indices
}

// GenerateFeatureIDs produces one id string per feature slot. A column name
// from the description file wins; otherwise the header token for that
// column; otherwise the feature index.
func (m *MetaInfo) GenerateFeatureIDs(header string, hasHeader bool, delimiter string) []string {
	var headerTokens []string
	if hasHeader {
		headerTokens = strings.Split(header, delimiter)
	}

	ids := make([]string, 0, m.FeatureCount)
	for i, c := range m.Columns {
		if !c.Role.IsFeature() {
			continue
		}
		switch {
		case c.Name != "":
			ids = append(ids, c.Name)
		case i < len(headerTokens):
			ids = append(ids, strings.TrimSpace(headerTokens[i]))
		default:
			ids = append(ids, strconv.Itoa(len(ids)))
		}
	}
	return ids
}
