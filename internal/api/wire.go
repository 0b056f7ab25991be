package api

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/poe/almacen/internal/domain"
)

// Wire types mirror the backend's Spanish field names, aliases included.
// Conversion to the canonical domain shapes happens here and nowhere else.

// shelfRef absorbs the backend's estanteria field, which arrives as a number
// on some endpoints and a string on others.
type shelfRef string

func (s *shelfRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = shelfRef(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = shelfRef(n.String())
	return nil
}

func (s shelfRef) Int() int {
	n, _ := strconv.Atoi(string(s))
	return n
}

type wireProducto struct {
	ID       int     `json:"id_producto"`
	Nombre   string  `json:"nombre"`
	Categia  string  `json:"categoria"`
	UnitTipo string  `json:"unidad_tipo"`
	UnitQty  float64 `json:"unidad_cantidad"`
}

func (w *wireProducto) toDomain() *domain.Product {
	if w == nil {
		return nil
	}
	return &domain.Product{
		ID:       w.ID,
		Name:     w.Nombre,
		Category: w.Categia,
		UnitType: w.UnitTipo,
		UnitQty:  w.UnitQty,
	}
}

type wirePunto struct {
	ID         int           `json:"id_punto"`
	Estanteria shelfRef      `json:"estanteria"`
	Nivel      int           `json:"nivel"`
	Producto   *wireProducto `json:"producto"`
}

func (w wirePunto) toDomain() domain.ReplenishmentPoint {
	return domain.ReplenishmentPoint{
		ID:        w.ID,
		ShelfUnit: string(w.Estanteria),
		Level:     w.Nivel,
		Product:   w.Producto.toDomain(),
	}
}

type wireObjeto struct {
	Nombre    string `json:"nombre"`
	Tipo      string `json:"tipo"`
	Caminable *bool  `json:"caminable"`
}

type wireMueble struct {
	ID     int         `json:"id_mueble"`
	Tipo   string      `json:"tipo_mueble"`
	Filas  int         `json:"filas"`
	Cols   int         `json:"columnas"`
	Puntos []wirePunto `json:"puntos_reposicion"`
}

type wireUbicacion struct {
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Objeto *wireObjeto `json:"objeto"`
	Mueble *wireMueble `json:"mueble"`
}

type wireMapa struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
	Ancho  int    `json:"ancho"`
	Alto   int    `json:"alto"`
}

type wireMapaResponse struct {
	Mapa        *wireMapa       `json:"mapa"`
	Ubicaciones []wireUbicacion `json:"ubicaciones"`
	Mensaje     string          `json:"mensaje"`
}

func (w wireMapaResponse) toDomain() domain.MapView {
	view := domain.MapView{Message: w.Mensaje}
	if w.Mapa != nil {
		view.Grid = domain.Grid{
			ID:     w.Mapa.ID,
			Name:   w.Mapa.Nombre,
			Width:  w.Mapa.Ancho,
			Height: w.Mapa.Alto,
		}
	}
	for _, u := range w.Ubicaciones {
		loc := domain.Location{X: u.X, Y: u.Y}
		if u.Objeto != nil {
			loc.Object = &domain.ObjectInfo{
				Name:     u.Objeto.Nombre,
				Kind:     u.Objeto.Tipo,
				Walkable: u.Objeto.Caminable,
			}
		}
		if u.Mueble != nil {
			f := &domain.Furniture{
				ID:   u.Mueble.ID,
				Kind: u.Mueble.Tipo,
				Rows: u.Mueble.Filas,
				Cols: u.Mueble.Cols,
			}
			for _, p := range u.Mueble.Puntos {
				f.Points = append(f.Points, p.toDomain())
			}
			loc.Furniture = f
		}
		view.Locations = append(view.Locations, loc)
	}
	return view
}

type wireTareaProducto struct {
	ID        int    `json:"id_producto"`
	Nombre    string `json:"nombre"`
	Cantidad  int    `json:"cantidad"`
	Ubicacion struct {
		IDPunto    int      `json:"id_punto"`
		Estanteria shelfRef `json:"estanteria"`
		Nivel      int      `json:"nivel"`
	} `json:"ubicacion"`
}

type wireTarea struct {
	ID        int                 `json:"id_tarea"`
	Fecha     string              `json:"fecha_creacion"`
	Estado    string              `json:"estado"`
	Reponedor *string             `json:"reponedor"`
	Productos []wireTareaProducto `json:"productos"`
}

// creationTimeFormats are tried in order when parsing fecha_creacion.
var creationTimeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseCreationTime(s string) time.Time {
	for _, f := range creationTimeFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (w wireTarea) toDomain() domain.Task {
	t := domain.Task{
		ID:        w.ID,
		CreatedAt: parseCreationTime(w.Fecha),
		Status:    domain.ParseTaskStatus(w.Estado),
	}
	if w.Reponedor != nil {
		t.Assignee = *w.Reponedor
	}
	for _, p := range w.Productos {
		t.Products = append(t.Products, domain.TaskProduct{
			ProductID: p.ID,
			Name:      p.Nombre,
			Quantity:  p.Cantidad,
			PointID:   p.Ubicacion.IDPunto,
			ShelfUnit: string(p.Ubicacion.Estanteria),
			Level:     p.Ubicacion.Nivel,
		})
	}
	return t
}

type wireReponedor struct {
	ID     int    `json:"id_usuario"`
	Nombre string `json:"nombre"`
	Correo string `json:"correo"`
	Estado string `json:"estado"`
}

func (w wireReponedor) toDomain() domain.Reponedor {
	return domain.Reponedor{ID: w.ID, Name: w.Nombre, Email: w.Correo, State: w.Estado}
}

type wireCoordenada struct {
	X         int `json:"x"`
	Y         int `json:"y"`
	Secuencia int `json:"secuencia"`
}

type wirePuntoVisita struct {
	Orden          int      `json:"orden"`
	IDPunto        int      `json:"id_punto"`
	Producto       string   `json:"producto"`
	NombreProducto string   `json:"nombre_producto"`
	Cantidad       int      `json:"cantidad"`
	Mueble         string   `json:"mueble"`
	NombreMueble   string   `json:"nombre_mueble"`
	Estanteria     shelfRef `json:"estanteria"`
	Nivel          int      `json:"nivel"`
	XAcceso        int      `json:"x_acceso"`
	YAcceso        int      `json:"y_acceso"`
	Llegada        *struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"coordenada_llegada"`
}

// wireRuta covers every route payload shape the backend has shipped: the
// modern ruta-visual response, the legacy ruta-optimizada one, and the
// field aliases between them.
type wireRuta struct {
	IDRuta   int     `json:"id_ruta"`
	IDTarea  int     `json:"id_tarea"`
	Distance float64 `json:"distancia_total"`

	TiempoMin     float64 `json:"tiempo_estimado_min"`
	TiempoMinutos float64 `json:"tiempo_estimado_minutos"`
	TiempoTotal   float64 `json:"tiempo_estimado_total"`

	AlgoritmoUsado     string `json:"algoritmo_usado"`
	AlgoritmoUtilizado *struct {
		Nombre string `json:"nombre"`
	} `json:"algoritmo_utilizado"`

	Coordenadas       []wireCoordenada `json:"coordenadas_ruta"`
	CoordenadasGlobal []wireCoordenada `json:"coordenadas_ruta_global"`

	PuntosVisita []wirePuntoVisita `json:"puntos_visita"`
}

// normalizeRoute folds all the backend aliases into the canonical Route:
// coordenadas_ruta_global wins over coordenadas_ruta when present, the three
// estimated-time aliases collapse to one, and missing sequences are filled
// in 1-based.
func normalizeRoute(w wireRuta) domain.Route {
	r := domain.Route{
		ID:            w.IDRuta,
		TaskID:        w.IDTarea,
		TotalDistance: w.Distance,
	}

	switch {
	case w.TiempoMinutos > 0:
		r.EstimatedMinutes = w.TiempoMinutos
	case w.TiempoTotal > 0:
		r.EstimatedMinutes = w.TiempoTotal
	default:
		r.EstimatedMinutes = w.TiempoMin
	}

	switch {
	case w.AlgoritmoUtilizado != nil && w.AlgoritmoUtilizado.Nombre != "":
		r.AlgorithmName = w.AlgoritmoUtilizado.Nombre
	default:
		r.AlgorithmName = w.AlgoritmoUsado
	}

	coords := w.Coordenadas
	if len(w.CoordenadasGlobal) > 0 {
		coords = w.CoordenadasGlobal
	}
	for i, c := range coords {
		seq := c.Secuencia
		if seq == 0 {
			seq = i + 1
		}
		r.Coordinates = append(r.Coordinates, domain.RouteCoordinate{X: c.X, Y: c.Y, Sequence: seq})
	}

	for i, p := range w.PuntosVisita {
		v := domain.PointVisit{
			Order:     p.Orden,
			PointID:   p.IDPunto,
			Quantity:  p.Cantidad,
			ShelfUnit: p.Estanteria.Int(),
			Level:     p.Nivel,
		}
		if v.Order == 0 {
			v.Order = i + 1
		}
		if p.Producto != "" {
			v.Product = p.Producto
		} else {
			v.Product = p.NombreProducto
		}
		if p.Mueble != "" {
			v.Furniture = p.Mueble
		} else {
			v.Furniture = p.NombreMueble
		}
		if p.Llegada != nil {
			v.Arrival = domain.Key(p.Llegada.X, p.Llegada.Y)
		} else {
			v.Arrival = domain.Key(p.XAcceso, p.YAcceso)
		}
		r.VisitedPoints = append(r.VisitedPoints, v)
	}

	return r
}
