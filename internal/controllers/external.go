package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fenixcs/fieldtracker/internal/models"
)

// ExtController calls the Open-Meteo forecast and geocoding services for
// the dashboard weather widget.
type ExtController struct {
	log           Log
	weatherAddr   func() string
	geocodingAddr func() string
}

func NewExtController(weatherAddr func() string, geocodingAddr func() string, log Log) *ExtController {
	return &ExtController{
		log:           log,
		weatherAddr:   weatherAddr,
		geocodingAddr: geocodingAddr,
	}
}

type forecastResponse struct {
	Current struct {
		Temperature              float64 `json:"temperature_2m"`
		PrecipitationProbability int     `json:"precipitation_probability"`
		WeatherCode              int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Time                     []string  `json:"time"`
		TemperatureMin           []float64 `json:"temperature_2m_min"`
		TemperatureMax           []float64 `json:"temperature_2m_max"`
		WeatherCode              []int     `json:"weather_code"`
		PrecipitationProbability []int     `json:"precipitation_probability_max"`
	} `json:"daily"`
}

// Forecast fetches the current conditions and the daily outlook for the
// given coordinates.
func (c *ExtController) Forecast(lat, lon float64) (models.WeatherForecast, error) {
	addr := normalizeAddr(c.weatherAddr())

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	query.Set("current", "temperature_2m,precipitation_probability,weather_code")
	query.Set("daily", "temperature_2m_min,temperature_2m_max,weather_code,precipitation_probability_max")
	query.Set("timezone", "auto")

	resp, err := http.Get(addr + "?" + query.Encode())
	if err != nil {
		c.log.Info("unable to access weather service: ", zap.Error(err))
		return models.WeatherForecast{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Info("status code error: ", zap.String("status", resp.Status))
		return models.WeatherForecast{}, fmt.Errorf("status code error: %s", resp.Status)
	}

	var raw forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return models.WeatherForecast{}, err
	}

	forecast := models.WeatherForecast{
		Temperature:              raw.Current.Temperature,
		PrecipitationProbability: raw.Current.PrecipitationProbability,
		WeatherCode:              raw.Current.WeatherCode,
	}

	for i, date := range raw.Daily.Time {
		day := models.WeatherDaily{Date: date}
		if i < len(raw.Daily.TemperatureMin) {
			day.TemperatureMin = raw.Daily.TemperatureMin[i]
		}
		if i < len(raw.Daily.TemperatureMax) {
			day.TemperatureMax = raw.Daily.TemperatureMax[i]
		}
		if i < len(raw.Daily.WeatherCode) {
			day.WeatherCode = raw.Daily.WeatherCode[i]
		}
		if i < len(raw.Daily.PrecipitationProbability) {
			day.PrecipitationProbability = raw.Daily.PrecipitationProbability[i]
		}
		forecast.Daily = append(forecast.Daily, day)
	}

	return forecast, nil
}

type geocodingResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
		Country   string  `json:"country"`
	} `json:"results"`
}

// SearchPlaces resolves a place name to coordinates.
func (c *ExtController) SearchPlaces(name string) ([]models.GeoPlace, error) {
	addr := normalizeAddr(c.geocodingAddr())

	query := url.Values{}
	query.Set("name", name)
	query.Set("count", "5")

	resp, err := http.Get(addr + "?" + query.Encode())
	if err != nil {
		c.log.Info("unable to access geocoding service: ", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Info("status code error: ", zap.String("status", resp.Status))
		return nil, fmt.Errorf("status code error: %s", resp.Status)
	}

	var raw geocodingResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	places := make([]models.GeoPlace, 0, len(raw.Results))
	for _, r := range raw.Results {
		places = append(places, models.GeoPlace{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Name:      r.Name,
			Country:   r.Country,
		})
	}

	return places, nil
}

// normalizeAddr adds the http scheme when it is missing.
func normalizeAddr(addr string) string {
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}

	return strings.TrimSuffix(addr, "/")
}

// @Summary Weather
// @Description Current conditions and daily outlook for coordinates
// @Tags External
// @Produce json
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Success 200 {object} models.WeatherForecast "Forecast"
// @Failure 400 {string} string "Bad Request"
// @Failure 502 {string} string "Bad Gateway"
// @Router /api/weather [get]
func (h *BaseController) GetWeather(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("longitude"), 64)
	if errLat != nil || errLon != nil {
		h.log.Info("invalid coordinates format")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	forecast, err := h.external.Forecast(lat, lon)
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	h.writeJSON(w, forecast)
}

// @Summary Place search
// @Description Resolve a place name to coordinates
// @Tags External
// @Produce json
// @Param name query string true "Place name"
// @Success 200 {array} models.GeoPlace "Places"
// @Failure 400 {string} string "Bad Request"
// @Failure 502 {string} string "Bad Gateway"
// @Router /api/geocoding [get]
func (h *BaseController) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		h.log.Info("place name was not received")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	places, err := h.external.SearchPlaces(name)
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	h.writeJSON(w, places)
}
