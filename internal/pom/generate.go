package pom

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/oshokin/central-publisher/internal/domain/artifact"
)

const (
	modelVersion   = "4.0.0"
	namespace      = "http://maven.apache.org/POM/4.0.0"
	schemaInstance = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation = "http://maven.apache.org/POM/4.0.0 https://maven.apache.org/xsd/maven-4.0.0.xsd"
)

type project struct {
	XMLName        xml.Name      `xml:"project"`
	Xmlns          string        `xml:"xmlns,attr"`
	XmlnsXSI       string        `xml:"xmlns:xsi,attr"`
	SchemaLocation string        `xml:"xsi:schemaLocation,attr"`
	ModelVersion   string        `xml:"modelVersion"`
	GroupID        string        `xml:"groupId"`
	ArtifactID     string        `xml:"artifactId"`
	Version        string        `xml:"version"`
	Packaging      string        `xml:"packaging,omitempty"`
	Name           string        `xml:"name"`
	Description    string        `xml:"description"`
	URL            string        `xml:"url"`
	Licenses       []xmlLicense  `xml:"licenses>license"`
	Developers     []xmlDeveloper `xml:"developers>developer"`
	SCM            xmlSCM        `xml:"scm"`
}

type xmlLicense struct {
	Name string `xml:"name"`
	URL  string `xml:"url,omitempty"`
}

type xmlDeveloper struct {
	ID    string `xml:"id,omitempty"`
	Name  string `xml:"name"`
	Email string `xml:"email,omitempty"`
}

type xmlSCM struct {
	Connection          string `xml:"connection,omitempty"`
	DeveloperConnection string `xml:"developerConnection,omitempty"`
	URL                 string `xml:"url"`
}

// Packaging returns the POM packaging value for a component type.
// A version catalog bundle carries no main artifact, so its POM declares "pom".
func Packaging(componentType artifact.ComponentType) string {
	if componentType == artifact.ComponentVersionCatalog {
		return "pom"
	}

	return "jar"
}

// Generate renders a POM for the coordinate after validating the metadata.
func Generate(coord artifact.Coordinate, componentType artifact.ComponentType, meta *Metadata) ([]byte, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}

	if err := meta.Validate(); err != nil {
		return nil, err
	}

	doc := project{
		Xmlns:          namespace,
		XmlnsXSI:       schemaInstance,
		SchemaLocation: schemaLocation,
		ModelVersion:   modelVersion,
		GroupID:        coord.GroupID,
		ArtifactID:     coord.ArtifactID,
		Version:        coord.Version,
		Packaging:      Packaging(componentType),
		Name:           meta.Name,
		Description:    meta.Description,
		URL:            meta.URL,
		SCM: xmlSCM{
			Connection:          meta.SCM.Connection,
			DeveloperConnection: meta.SCM.DeveloperConnection,
			URL:                 meta.SCM.URL,
		},
	}

	for _, license := range meta.Licenses {
		name := license.Name
		if name == "" {
			name = license.ID
		}

		doc.Licenses = append(doc.Licenses, xmlLicense{Name: name, URL: license.URL})
	}

	for _, developer := range meta.Developers {
		doc.Developers = append(doc.Developers, xmlDeveloper(developer))
	}

	var buf bytes.Buffer

	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode POM: %w", err)
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}
