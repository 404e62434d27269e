package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFile 数据目录下的清单文件名
const ManifestFile = "manifest.yaml"

// Manifest 数据集清单：各数据文件相对数据目录的位置
type Manifest struct {
	CountryCode  string `yaml:"country_code"`
	Workbook     string `yaml:"workbook"` // 可选：包含项目/指标/证言/贫困 Sheet 的 xlsx
	Projects     string `yaml:"projects"`
	Descriptions string `yaml:"descriptions"` // 可选
	Indicators   string `yaml:"indicators"`
	Testimonials string `yaml:"testimonials"`
	Poverty      string `yaml:"poverty"`
	Geometry     string `yaml:"geometry"`
	JoinProperty string `yaml:"geometry_join_property"`
	IDProperty   string `yaml:"geometry_id_property"`
	Images       string `yaml:"images"`
}

// DefaultManifest 默认清单（柬埔寨样例数据的目录结构）
func DefaultManifest() Manifest {
	return Manifest{
		CountryCode:  "KHM",
		Projects:     "cambodia_projects.csv",
		Indicators:   "indicators.csv",
		Testimonials: "testimonials.csv",
		Poverty:      "wealth_data/subnational_mpi.csv",
		Geometry:     "geo_boundaries/gadm41_KHM_1.json",
		JoinProperty: "NAME_1",
		IDProperty:   "GID_1",
		Images:       "images",
	}
}

// LoadManifest 读取数据目录下的 manifest.yaml；文件不存在时使用默认清单
// 清单中未填写的字段沿用默认值
func LoadManifest(dataDir string) (Manifest, error) {
	m := DefaultManifest()

	data, err := os.ReadFile(filepath.Join(dataDir, ManifestFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, nil
		}
		return m, err
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse %s: %w", ManifestFile, err)
	}
	m.CountryCode = strings.ToUpper(strings.TrimSpace(m.CountryCode))
	if m.CountryCode == "" {
		return m, fmt.Errorf("%s: country_code is required", ManifestFile)
	}
	return m, nil
}

// resolve 相对路径基于数据目录
func (m Manifest) resolve(dataDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}
