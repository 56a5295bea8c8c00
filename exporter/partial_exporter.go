/*
 * Copyright 2025 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package exporter

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ComponentType represents the types of components that can be scraped
type ComponentType string

const (
	ComponentFacts       ComponentType = "facts"
	ComponentEnvironment ComponentType = "environment"
	ComponentInterfaces  ComponentType = "interfaces"
)

// AllComponents is collected by a full scrape, in this order.
var AllComponents = []ComponentType{
	ComponentFacts,
	ComponentEnvironment,
	ComponentInterfaces,
}

// ValidComponents contains all valid component types for partial scraping
var ValidComponents = map[ComponentType]bool{
	ComponentFacts:       true,
	ComponentEnvironment: true,
	ComponentInterfaces:  true,
}

// ParseComponents parses a comma-separated list of components and validates them.
// Invalid components are silently ignored, duplicates are dropped.
func ParseComponents(componentsStr string) ([]ComponentType, error) {
	if componentsStr == "" {
		return nil, errors.New("components parameter is empty")
	}

	parts := strings.Split(componentsStr, ",")
	components := make([]ComponentType, 0, len(parts))
	seen := make(map[ComponentType]bool, len(parts))

	for _, part := range parts {
		component := ComponentType(strings.TrimSpace(strings.ToLower(part)))
		if ValidComponents[component] && !seen[component] {
			seen[component] = true
			components = append(components, component)
		}
	}

	if len(components) == 0 {
		return nil, fmt.Errorf("no valid components specified. Valid components are: facts, environment, interfaces")
	}

	return components, nil
}

// NewPartialExporter creates an exporter that only collects the given components
func NewPartialExporter(ctx context.Context, target, profile string, components []ComponentType) (*Exporter, error) {
	if len(components) == 0 {
		return nil, errors.New("no components to scrape")
	}
	return NewExporter(ctx, target, profile, components...), nil
}
