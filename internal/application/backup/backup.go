// Package backup vuelca y restaura el contenido completo del almacén como
// un zip con un único database.json. El volcado preserva dataset_version y
// timestamps tal cual; la importación escribe con las variantes del protocolo
// que evitan avanzar versiones, de modo que exportar e importar es idempotente.
package backup

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
	"github.com/mgarzon/almacen-api/pkg/logger"
)

// DocumentFileName nombre de la entrada dentro del zip.
const DocumentFileName = "database.json"

// importOpts la importación conserva las versiones del volcado y no avanza
// la estadística fila a fila (se marca una vez por tabla al final).
var importOpts = repository.WriteOptions{
	NoCheckDatasetVersion:    true,
	NoIncreaseDatasetVersion: true,
	NoTableStatsUpdate:       true,
}

// Repos puertos de persistencia que el respaldo recorre.
type Repos struct {
	Articles      repository.ArticleRepository
	Attributes    repository.AttributeRepository
	Images        repository.ImageReferenceRepository
	Stores        repository.StoreRepository
	Sections      repository.StoreSectionRepository
	Manufacturers repository.ManufacturerRepository
	Receivers     repository.ReceiverRepository
	Hashtags      repository.HashtagRepository
	CostUnits     repository.CostUnitRepository
	Users         repository.UserRepository
	Receipts      repository.ReceiptRepository
	Emissions     repository.EmissionRepository
}

// Document raíz de database.json.
type Document struct {
	Tables map[string]Table `json:"tables"`
}

// Table filas de una tabla, en el orden devuelto por el almacén.
type Table struct {
	Rows []json.RawMessage `json:"rows"`
}

// Service exportación e importación del volcado completo.
type Service struct {
	repos Repos
	stats repository.TableStatsRepository
	log   *logger.Logger
}

// NewService crea el servicio de respaldo.
func NewService(repos Repos, stats repository.TableStatsRepository, log *logger.Logger) *Service {
	return &Service{repos: repos, stats: stats, log: log}
}

func marshalRows[T any](list []*T) (Table, error) {
	t := Table{Rows: make([]json.RawMessage, 0, len(list))}
	for _, row := range list {
		raw, err := json.Marshal(row)
		if err != nil {
			return Table{}, err
		}
		t.Rows = append(t.Rows, raw)
	}
	return t, nil
}

func collect[T any](doc *Document, table string, all func() ([]*T, error)) error {
	list, err := all()
	if err != nil {
		return fmt.Errorf("leer %s: %w", table, err)
	}
	t, err := marshalRows(list)
	if err != nil {
		return fmt.Errorf("serializar %s: %w", table, err)
	}
	doc.Tables[table] = t
	return nil
}

// BuildDocument recorre todas las tablas y arma el documento del volcado.
func (s *Service) BuildDocument() (*Document, error) {
	doc := &Document{Tables: make(map[string]Table)}
	if err := collect(doc, repository.TableArticles, s.repos.Articles.All); err != nil {
		return nil, err
	}
	if err := collect(doc, repository.TableAttributes, s.repos.Attributes.All); err != nil {
		return nil, err
	}
	if err := collect(doc, repository.TableImageReferences, s.repos.Images.All); err != nil {
		return nil, err
	}
	if err := collect(doc, repository.TableStores, s.repos.Stores.All); err != nil {
		return nil, err
	}
	if err := collect(doc, repository.TableStoreSections, s.repos.Sections.All); err != nil {
		return nil, err
	}
	if err := collect(doc, repository.TableManufacturers, s.repos.Manufacturers.All); err != nil {
		return nil, err
	}
	if err := collect(doc, repository.TableReceivers, s.repos.Receivers.All); err != nil {
		return nil, err
	}
	if err := collect(doc, repository.TableHashtags, s.repos.Hashtags.All); err != nil {
		return nil, err
	}
	if err := collect(doc, repository.TableCostUnits, s.repos.CostUnits.All); err != nil {
		return nil, err
	}
	if err := collect(doc, repository.TableUsers, s.repos.Users.All); err != nil {
		return nil, err
	}
	if err := collect(doc, repository.TableReceipts, s.repos.Receipts.All); err != nil {
		return nil, err
	}
	if err := collect(doc, repository.TableEmissions, s.repos.Emissions.All); err != nil {
		return nil, err
	}
	return doc, nil
}

// Export escribe el zip del volcado en w.
func (s *Service) Export(w io.Writer) error {
	doc, err := s.BuildDocument()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar volcado: %w", err)
	}

	zw := zip.NewWriter(w)
	f, err := zw.Create(DocumentFileName)
	if err != nil {
		return fmt.Errorf("crear entrada del zip: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("escribir volcado: %w", err)
	}
	return zw.Close()
}

// insertOrUpdate inserta la fila del volcado tal cual; si ya existe
// (violación de clave) la reescribe conservando su dataset_version.
func insertOrUpdate[T any](table string, rows []json.RawMessage, insert func(*T) error, update func(*T, repository.WriteOptions) error) error {
	for _, raw := range rows {
		var row T
		if err := json.Unmarshal(raw, &row); err != nil {
			return fmt.Errorf("parsear fila de %s: %w", table, err)
		}
		err := insert(&row)
		if err == nil {
			continue
		}
		var ce *domain.ConstraintError
		if !errors.As(err, &ce) {
			return fmt.Errorf("insertar en %s: %w", table, err)
		}
		if err := update(&row, importOpts); err != nil {
			return fmt.Errorf("actualizar en %s: %w", table, err)
		}
	}
	return nil
}

// upsertLedger reescribe un libro en orden ascendente de dataset_id para
// que la secuencia quede por delante de la fila más alta importada.
func upsertLedger[T any](table string, rows []json.RawMessage, datasetID func(*T) int64, upsert func(*T) error) error {
	parsed := make([]*T, 0, len(rows))
	for _, raw := range rows {
		var row T
		if err := json.Unmarshal(raw, &row); err != nil {
			return fmt.Errorf("parsear fila de %s: %w", table, err)
		}
		parsed = append(parsed, &row)
	}
	sort.Slice(parsed, func(i, j int) bool { return datasetID(parsed[i]) < datasetID(parsed[j]) })
	for _, row := range parsed {
		if err := upsert(row); err != nil {
			return fmt.Errorf("upsert en %s: %w", table, err)
		}
	}
	return nil
}

// Import restaura un volcado desde el zip. Las tablas maestras se escriben
// respetando las referencias entre ellas; los libros van al final en orden
// de dataset_id. El motor de stock debe reinicializarse después.
func (s *Service) Import(r io.ReaderAt, size int64) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("%w: el archivo no es un zip válido", domain.ErrInvalidInput)
	}
	var doc *Document
	for _, f := range zr.File {
		if f.Name != DocumentFileName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("abrir %s: %w", DocumentFileName, err)
		}
		err = json.NewDecoder(rc).Decode(&doc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("%w: %s malformado: %v", domain.ErrInvalidInput, DocumentFileName, err)
		}
		break
	}
	if doc == nil {
		return fmt.Errorf("%w: el zip no contiene %s", domain.ErrInvalidInput, DocumentFileName)
	}

	rows := func(table string) []json.RawMessage { return doc.Tables[table].Rows }

	if err := insertOrUpdate[entity.Manufacturer](repository.TableManufacturers, rows(repository.TableManufacturers), s.repos.Manufacturers.Insert, s.repos.Manufacturers.Update); err != nil {
		return err
	}
	if err := insertOrUpdate[entity.CostUnit](repository.TableCostUnits, rows(repository.TableCostUnits), s.repos.CostUnits.Insert, s.repos.CostUnits.Update); err != nil {
		return err
	}
	if err := insertOrUpdate[entity.Hashtag](repository.TableHashtags, rows(repository.TableHashtags), s.repos.Hashtags.Insert, s.repos.Hashtags.Update); err != nil {
		return err
	}
	if err := insertOrUpdate[entity.Receiver](repository.TableReceivers, rows(repository.TableReceivers), s.repos.Receivers.Insert, s.repos.Receivers.Update); err != nil {
		return err
	}
	if err := insertOrUpdate[entity.Store](repository.TableStores, rows(repository.TableStores), s.repos.Stores.Insert, s.repos.Stores.Update); err != nil {
		return err
	}
	if err := insertOrUpdate[entity.StoreSection](repository.TableStoreSections, rows(repository.TableStoreSections), s.repos.Sections.Insert, s.repos.Sections.Update); err != nil {
		return err
	}
	if err := insertOrUpdate[entity.Article](repository.TableArticles, rows(repository.TableArticles), s.repos.Articles.Insert, s.repos.Articles.Update); err != nil {
		return err
	}
	if err := insertOrUpdate[entity.Attribute](repository.TableAttributes, rows(repository.TableAttributes), s.repos.Attributes.Insert, s.repos.Attributes.Update); err != nil {
		return err
	}
	if err := insertOrUpdate[entity.ImageReference](repository.TableImageReferences, rows(repository.TableImageReferences), s.repos.Images.Insert, s.repos.Images.Update); err != nil {
		return err
	}

	if err := s.importUsers(rows(repository.TableUsers)); err != nil {
		return err
	}

	if err := upsertLedger[entity.Receipt](repository.TableReceipts, rows(repository.TableReceipts),
		func(r *entity.Receipt) int64 { return r.DatasetID }, s.repos.Receipts.Upsert); err != nil {
		return err
	}
	if err := upsertLedger[entity.Emission](repository.TableEmissions, rows(repository.TableEmissions),
		func(e *entity.Emission) int64 { return e.DatasetID }, s.repos.Emissions.Upsert); err != nil {
		return err
	}

	for table := range doc.Tables {
		if err := s.stats.Touch(table); err != nil {
			s.log.Warn().Err(err).Str("table", table).Msg("no se pudo marcar la estadística tras la importación")
		}
	}
	return nil
}

// importUsers el puerto de usuarios no tiene reescritura; una fila ya
// existente se conserva tal cual.
func (s *Service) importUsers(rows []json.RawMessage) error {
	for _, raw := range rows {
		var row entity.User
		if err := json.Unmarshal(raw, &row); err != nil {
			return fmt.Errorf("parsear fila de %s: %w", repository.TableUsers, err)
		}
		err := s.repos.Users.Create(&row)
		if err == nil {
			continue
		}
		var ce *domain.ConstraintError
		if errors.As(err, &ce) {
			s.log.Debug().Str("user_id", row.ID).Msg("usuario ya existente, se conserva")
			continue
		}
		return fmt.Errorf("insertar en %s: %w", repository.TableUsers, err)
	}
	return nil
}
